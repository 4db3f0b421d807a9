package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/logger"
	"github.com/shopmall/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Identity context keys
const (
	UserIDKey      = "session_user_id"
	DeviceIDKey    = "session_device_id"
	TokenJTIKey    = "session_token_jti"
	TokenTTLKey    = "session_token_ttl"
	DeviceIDHeader = "X-Device-ID"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; when set, revoked tokens are rejected
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Identity resolves who the request is for. A valid bearer token makes it an
// account session; otherwise the X-Device-ID header identifies a guest
// session. Every cart route needs one of the two.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, BearerPrefix) {
				abortUnauthorized(c, "Invalid authorization header format")
				return
			}
			claims, err := cfg.JWTService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
			if err != nil {
				abortUnauthorized(c, "Token validation failed")
				return
			}
			if cfg.Blacklist != nil {
				revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Error("token blacklist check failed", zap.Error(err))
					}
					c.AbortWithStatusJSON(http.StatusInternalServerError,
						dto.NewErrorResponse(dto.ErrCodeInternal, "Failed to verify token"))
					return
				}
				if revoked {
					abortUnauthorized(c, "Token has been revoked")
					return
				}
			}

			userID, err := claims.UserUUID()
			if err != nil {
				abortUnauthorized(c, "Malformed user ID in token")
				return
			}
			deviceID, err := claims.DeviceUUID()
			if err != nil {
				abortUnauthorized(c, "Malformed device ID in token")
				return
			}

			c.Set(UserIDKey, userID)
			c.Set(DeviceIDKey, deviceID)
			c.Set(TokenJTIKey, claims.ID)
			c.Set(TokenTTLKey, claims.RemainingTTL())

			ctx, _ := logger.WithSession(c.Request.Context(), logger.FromGin(c), userID.String(), deviceID.String())
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		deviceHeader := c.GetHeader(DeviceIDHeader)
		if deviceHeader == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "X-Device-ID header is required for guest sessions"))
			return
		}
		deviceID, err := uuid.Parse(deviceHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "X-Device-ID must be a UUID"))
			return
		}

		c.Set(DeviceIDKey, deviceID)

		ctx, _ := logger.WithSession(c.Request.Context(), logger.FromGin(c), "", deviceID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAccount rejects requests that did not authenticate. Checkout and the
// address book are account-only surfaces.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user ID, if any
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetDeviceID returns the device ID bound to the session, if any
func GetDeviceID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(DeviceIDKey)
	if !ok {
		return uuid.Nil, false
	}
	deviceID, ok := value.(uuid.UUID)
	return deviceID, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
