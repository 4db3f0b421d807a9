package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/application/session"
	"github.com/shopmall/backend/internal/interfaces/http/dto"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
)

// CartHandler serves the working cart for the current session, guest or
// account alike
type CartHandler struct {
	sessions *session.Registry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *session.Registry) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	{
		carts.GET("", h.Get)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:id", h.SetQuantity)
		carts.DELETE("/items/:id", h.RemoveItem)
		carts.POST("/items/:id/toggle", h.ToggleSelect)
		carts.POST("/select-all", h.SelectAll)
		carts.POST("/deselect-all", h.DeselectAll)
	}
}

// session resolves the caller's session: account when authenticated, guest
// otherwise
func (h *CartHandler) session(c *gin.Context) (*session.Session, error) {
	if userID, ok := middleware.GetUserID(c); ok {
		return h.sessions.Account(c.Request.Context(), userID)
	}
	deviceID, _ := middleware.GetDeviceID(c)
	return h.sessions.Guest(c.Request.Context(), deviceID)
}

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=999"`
}

// SetQuantityRequest replaces a line's quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// Get returns the current cart view
func (h *CartHandler) Get(c *gin.Context) {
	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// AddItem adds a product to the cart, snapshotting it from the catalog
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondBadRequest(c, "product_id must be a UUID")
		return
	}

	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := sess.Cart.AddProduct(c.Request.Context(), productID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// SetQuantity replaces a line's quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Cart.SetQuantity(c.Request.Context(), itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Cart.RemoveItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// ToggleSelect flips a line's checkout selection
func (h *CartHandler) ToggleSelect(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Cart.ToggleSelect(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// SelectAll selects every line for checkout
func (h *CartHandler) SelectAll(c *gin.Context) {
	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Cart.SelectAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

// DeselectAll deselects every line
func (h *CartHandler) DeselectAll(c *gin.Context) {
	sess, err := h.session(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := sess.Cart.DeselectAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sess.Cart.Snapshot())
}

func (h *CartHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBadRequest(c, "id must be a UUID")
		return uuid.Nil, false
	}
	itemID, err := uuid.Parse(req.ID)
	if err != nil {
		respondBadRequest(c, "id must be a UUID")
		return uuid.Nil, false
	}
	return itemID, true
}
