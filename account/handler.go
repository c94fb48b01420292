package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/catalog/auth/authctx"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/server"
)

// CredentialsRequest is the body of register and login. Both keys must be
// present; their values are taken as-is, including empty strings.
type CredentialsRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// TokenResponse is returned by POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileResponse is returned by GET /auth/me.
type ProfileResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Handler serves the account endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the account routes on r. requireAuth must store
// the *Account in the request context (see middleware.RequireAuth).
func (h *Handler) RegisterRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/me", requireAuth, h.Me)

	r.GET("/users/me", requireAuth, h.Me)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}
	id, err := h.svc.Register(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RegisterResponse{Message: "User registered", UserID: id})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}
	token, err := h.svc.Login(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /auth/me and GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	a, ok := authctx.Get[*Account](c.Request.Context())
	if !ok {
		server.RespondWithError(c, apperrors.MissingCredential())
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{ID: a.ID, Email: a.Email})
}

func bindCredentials(c *gin.Context) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be a JSON object with email and password.").WithCause(err))
		return nil, false
	}
	switch {
	case req.Email == nil:
		server.RespondWithError(c, missingKey("email"))
		return nil, false
	case req.Password == nil:
		server.RespondWithError(c, missingKey("password"))
		return nil, false
	}
	return &req, true
}

func missingKey(field string) *apperrors.AppError {
	return apperrors.Validation(field + ": is required").WithDetail("field", field)
}
