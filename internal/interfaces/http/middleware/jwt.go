package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homelease/backend/internal/infrastructure/auth"
	"github.com/homelease/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	JWTOrgIDKey  = "jwt_organization_id"
	JWTUserIDKey = "jwt_user_id"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig returns the default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTConfig {
	return JWTConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/api/v1/health",
		},
	}
}

// JWTAuth creates JWT authentication middleware with default configuration
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthWithConfig creates JWT authentication middleware.
// Validated claims land in the gin context; the organization ID is parsed
// once here so handlers never touch the raw token.
func JWTAuthWithConfig(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(authHeaderKey)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, cfg, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			message := "Invalid token"
			if err == auth.ErrExpiredToken {
				code = dto.ErrCodeTokenExpired
				message = "Token has expired"
			}
			abortUnauthorized(c, cfg, code, message)
			return
		}

		orgID, err := uuid.Parse(claims.OrganizationID)
		if err != nil || orgID == uuid.Nil {
			abortUnauthorized(c, cfg, dto.ErrCodeTokenInvalid, "Invalid organization in token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTOrgIDKey, orgID)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTConfig, code, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.String("code", code),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims retrieves validated JWT claims from the gin context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetOrganizationID retrieves the authenticated organization ID.
// Returns uuid.Nil when the request is unauthenticated.
func GetOrganizationID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(JWTOrgIDKey); exists {
		if orgID, ok := v.(uuid.UUID); ok {
			return orgID
		}
	}
	return uuid.Nil
}
