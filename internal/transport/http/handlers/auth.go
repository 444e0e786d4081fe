package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// AuthHandler exposes authentication and account verification endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
	accounts     *usecase.AccountService
	dispatcher   NotificationDispatcher
	isDev        bool
}

// AuthHandlerOption configures optional AuthHandler dependencies.
type AuthHandlerOption func(*AuthHandler)

// WithNotificationDispatcher injects the dispatcher used to deliver
// verification artifacts.
func WithNotificationDispatcher(dispatcher NotificationDispatcher) AuthHandlerOption {
	return func(h *AuthHandler) {
		if dispatcher == nil {
			dispatcher = noopDispatcher{}
		}
		h.dispatcher = dispatcher
	}
}

// WithDevMode toggles development-only behaviour (returning plaintext
// tokens in responses instead of delivering them).
func WithDevMode(isDev bool) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.isDev = isDev
	}
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(
	auth *usecase.AuthService,
	registration *usecase.RegistrationService,
	accounts *usecase.AccountService,
	opts ...AuthHandlerOption,
) *AuthHandler {
	handler := &AuthHandler{
		auth:         auth,
		registration: registration,
		accounts:     accounts,
		dispatcher:   noopDispatcher{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}

	return handler
}

// RegisterRoutes binds authentication routes. Each middleware slice is
// applied ahead of its credential-validating handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares, registerMiddlewares []gin.HandlerFunc) {
	register := append([]gin.HandlerFunc{}, registerMiddlewares...)
	r.POST("/register", append(register, h.register)...)

	login := append([]gin.HandlerFunc{}, loginMiddlewares...)
	r.POST("/login", append(login, h.login)...)

	r.POST("/verify-email", h.verifyEmail)
	r.POST("/resend-verification", h.resendVerification)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
			{Err: usecase.ErrUnverifiedEmail, Status: http.StatusForbidden, Message: "email address is not verified"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.auth.TokenValidity().Seconds()),
		User:        toUserSummary(user),
	})
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, generated, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet complexity requirements"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	notification := EmailVerificationNotification{
		UserID:  user.ID,
		Email:   user.Email,
		Expires: generated.Record.ExpiresAt,
	}
	if h.isDev {
		notification.DevToken = generated.Plaintext
	}
	if err := h.dispatcher.SendEmailVerification(c.Request.Context(), notification); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to dispatch verification"))
		return
	}

	resp := RegistrationResponse{
		Message: "account created; check your email to verify it",
		User:    toUserSummary(user),
	}
	if h.isDev {
		resp.DevToken = generated.Plaintext
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) verifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}

	if err := h.accounts.VerifyEmail(c.Request.Context(), req.UserID, req.Token); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrExpiredOrInvalidToken, Status: http.StatusBadRequest, Message: "invalid or expired verification token"},
		}, http.StatusInternalServerError, "email verification failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "email verified"})
}

// resendVerification responds 202 regardless of whether the email exists,
// so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) resendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	accepted := MessageResponse{Message: "if the account exists, a verification email is on its way"}

	generated, user, err := h.accounts.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusAccepted, accepted)
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailAlreadyVerified, Status: http.StatusConflict, Message: "email already verified"},
		}, http.StatusInternalServerError, "failed to resend verification")
		return
	}

	notification := EmailVerificationNotification{
		UserID:  user.ID,
		Email:   user.Email,
		Expires: generated.Record.ExpiresAt,
	}
	if h.isDev {
		notification.DevToken = generated.Plaintext
	}
	if err := h.dispatcher.SendEmailVerification(c.Request.Context(), notification); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to dispatch verification"))
		return
	}

	c.JSON(http.StatusAccepted, accepted)
}
