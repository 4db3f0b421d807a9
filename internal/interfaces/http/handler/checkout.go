package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/application/session"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler drives the prepare/submit checkout flow. Account-only; the
// router guards it with RequireAccount.
type CheckoutHandler struct {
	sessions *session.Registry
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *session.Registry) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/checkout", middleware.RequireAccount())
	{
		group.POST("/prepare", h.Prepare)
		group.POST("/submit", h.Submit)
		group.POST("/abandon", h.Abandon)
	}
}

// PrepareRequest starts a checkout attempt over the selected cart items
type PrepareRequest struct {
	AddressID     string `json:"address_id" binding:"required,uuid"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=COD BANK_TRANSFER WALLET"`
}

// Prepare freezes the selected items and fetches a shipping quote
func (h *CheckoutHandler) Prepare(c *gin.Context) {
	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		respondBadRequest(c, "address_id must be a UUID")
		return
	}

	userID, _ := middleware.GetUserID(c)
	sess, err := h.sessions.Account(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := sess.Checkout.Prepare(c.Request.Context(), userID, addressID, checkout.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// Submit sends the prepared draft to the order service
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	sess, err := h.sessions.Account(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := sess.Checkout.Submit(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, view)
}

// Abandon discards the draft without touching the cart
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	sess, err := h.sessions.Account(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.Checkout.Abandon()
	respondOK(c, gin.H{"abandoned": true})
}
