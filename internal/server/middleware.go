package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authdomain "github.com/netcharge/netcharge/internal/auth/domain"
	"go.uber.org/zap"
)

const (
	requestIDHeader  = "X-Request-Id"
	ctxClaimsKey     = "auth.claims"
	authHeaderPrefix = "Bearer "
)

// RequestLoggingMiddleware tags each request with an id and logs its outcome.
func RequestLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// AuthRequired validates the bearer token and stashes its claims on the
// context for downstream handlers.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, authHeaderPrefix) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, authHeaderPrefix))
		claims, err := s.authSvc.VerifyToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// RequireRole guards a route behind a specific user role.
func (s *Server) RequireRole(role authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if claims.Role != role {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) (authdomain.Claims, bool) {
	value, exists := c.Get(ctxClaimsKey)
	if !exists {
		return authdomain.Claims{}, false
	}
	claims, ok := value.(authdomain.Claims)
	return claims, ok
}
