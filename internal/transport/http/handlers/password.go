package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// PasswordHandler exposes the password reset flow.
type PasswordHandler struct {
	accounts   *usecase.AccountService
	dispatcher NotificationDispatcher
	isDev      bool
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(accounts *usecase.AccountService, dispatcher NotificationDispatcher, isDev bool) *PasswordHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	return &PasswordHandler{accounts: accounts, dispatcher: dispatcher, isDev: isDev}
}

// RegisterRoutes binds the password endpoints, applying optional
// middleware ahead of the handlers.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	forgot := append([]gin.HandlerFunc{}, middlewares...)
	r.POST("/forgot", append(forgot, h.forgot)...)

	reset := append([]gin.HandlerFunc{}, middlewares...)
	r.POST("/reset", append(reset, h.reset)...)
}

// forgot responds 202 regardless of whether the email exists, so the
// endpoint cannot be used to enumerate accounts.
func (h *PasswordHandler) forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	accepted := MessageResponse{Message: "if the account exists, a reset email is on its way"}

	request, err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusAccepted, accepted)
			return
		}
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to initiate password reset")
		return
	}

	notification := PasswordResetNotification{
		UserID:  request.User.ID,
		Email:   request.User.Email,
		Expires: request.Token.Record.ExpiresAt,
	}
	if h.isDev {
		notification.DevToken = request.Token.Plaintext
	}
	if err := h.dispatcher.SendPasswordReset(c.Request.Context(), notification); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to dispatch reset"))
		return
	}

	c.JSON(http.StatusAccepted, accepted)
}

func (h *PasswordHandler) reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	err := h.accounts.ResetPassword(c.Request.Context(), req.UserID, req.Token, req.NewPassword)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrExpiredOrInvalidToken, Status: http.StatusBadRequest, Message: "invalid or expired reset token"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet complexity requirements"},
		}, http.StatusInternalServerError, "password reset failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
