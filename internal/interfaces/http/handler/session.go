package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/application/session"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/logger"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// SessionHandler handles login and logout. It publishes the session events
// that drive the cart merge and snapshot; identity verification itself is an
// upstream concern, the caller arrives with a user ID the gateway vouched for.
type SessionHandler struct {
	sessions  *session.Registry
	publisher shared.EventPublisher
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Registry, publisher shared.EventPublisher, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		publisher: publisher,
		jwt:       jwtService,
		blacklist: blacklist,
	}
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/session")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", middleware.RequireAccount(), h.Logout)
	}
}

// LoginRequest binds the authenticated user to this device's session
type LoginRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login promotes a guest session to an account session. Publishing the
// logged-in event runs the guest-to-account cart merge before the token is
// returned, so the first authenticated cart read already sees merged lines.
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondBadRequest(c, "user_id must be a UUID")
		return
	}
	deviceID, ok := middleware.GetDeviceID(c)
	if !ok {
		respondBadRequest(c, "X-Device-ID header is required to log in")
		return
	}

	ctx := c.Request.Context()
	if err := h.publisher.Publish(ctx, cart.NewUserLoggedInEvent(userID, deviceID)); err != nil {
		respondError(c, err)
		return
	}

	// The merge moved the guest cart; drop its in-memory session so the
	// debounce timer cannot write the old lines back
	h.sessions.DiscardGuest(deviceID)

	issued, err := h.jwt.GenerateToken(userID, deviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, LoginResponse{
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresAt: issued.ExpiresAt,
	})
}

// Logout returns the session to guest. The account cart is flushed, then
// snapshotted to the guest store by the logged-out event, and the token is
// revoked for its remaining lifetime.
func (h *SessionHandler) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	deviceID, _ := middleware.GetDeviceID(c)
	ctx := c.Request.Context()

	// Flush pending debounced writes so the snapshot sees the latest cart
	h.sessions.ReleaseAccount(userID)

	if err := h.publisher.Publish(ctx, cart.NewUserLoggedOutEvent(userID, deviceID)); err != nil {
		respondError(c, err)
		return
	}

	if h.blacklist != nil {
		jti := c.GetString(middleware.TokenJTIKey)
		ttl, _ := c.Get(middleware.TokenTTLKey)
		remaining, _ := ttl.(time.Duration)
		if jti != "" && remaining > 0 {
			if err := h.blacklist.Revoke(ctx, jti, remaining); err != nil {
				logger.FromGin(c).Error("failed to revoke token at logout", zap.Error(err))
			}
		}
	}

	respondOK(c, gin.H{"logged_out": true})
}
