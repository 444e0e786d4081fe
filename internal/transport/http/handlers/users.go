package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/middleware"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// UserHandler exposes profile and account administration endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user routes. All of them require authentication.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.me)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.POST("/:id/promote", h.promote)
	r.DELETE("/:id", h.remove)
}

var userErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "insufficient permissions"},
}

func (h *UserHandler) me(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.Get(c.Request.Context(), actor.ID)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, toUserSummary(*user))
}

func (h *UserHandler) get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, toUserSummary(*user))
}

func (h *UserHandler) list(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.users.List(c.Request.Context(), actor, limit, offset)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to list users")
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, toUserSummary(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": summaries, "limit": limit, "offset": offset})
}

func (h *UserHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), actor, c.Param("id"), usecase.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PhotoURL:     req.PhotoURL,
		Description:  req.Description,
		Technologies: req.Technologies,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toUserSummary(*user))
}

func (h *UserHandler) promote(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.PromoteToMentor(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to promote user")
		return
	}

	if user.Role != domain.RoleMentor {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "promotion did not apply"))
		return
	}
	c.JSON(http.StatusOK, toUserSummary(*user))
}

func (h *UserHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.users.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
