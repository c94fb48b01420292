package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/catalog/auth"
	"github.com/kbukum/catalog/auth/authctx"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/observability"
)

// PrincipalKey is the gin context key RequireAuth stores the principal under.
const PrincipalKey = "account"

// RequireAuth guards a route with gate. On success the principal is stored
// in the request context (authctx) and under PrincipalKey; on failure the
// request is aborted with the gate's AppError. metrics may be nil.
func RequireAuth[A any](gate *auth.Gate[A], metrics *observability.AuthMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := gate.Authenticate(c.Request)
		if err != nil {
			appErr := apperrors.Wrap(err)
			metrics.RecordGateFailure(c.Request.Context(), string(appErr.Code))
			if appErr.HTTPStatus >= 500 {
				logger.WithComponent("auth").WithContext(c.Request.Context()).
					Error("authentication failed", logger.Fields(logger.FieldError, err.Error()))
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), principal))
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}
