package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/shopmall/backend/internal/interfaces/http/dto"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
)

// AddressHandler manages the account's address book. Account-only.
type AddressHandler struct {
	addresses address.Repository
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addresses address.Repository) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// RegisterRoutes registers address book routes
func (h *AddressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/addresses", middleware.RequireAccount())
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.POST("/:id/default", h.SetDefault)
		group.DELETE("/:id", h.Delete)
	}
}

// AddressRequest creates or updates an address book entry
type AddressRequest struct {
	Recipient  string `json:"recipient" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"required,vn_phone"`
	Line1      string `json:"line1" binding:"required,max=255"`
	ProvinceID int    `json:"province_id" binding:"required,min=1"`
	DistrictID int    `json:"district_id" binding:"min=0"`
	WardCode   string `json:"ward_code"`
	IsDefault  bool   `json:"is_default"`
}

// AddressView is the API shape of an address book entry
type AddressView struct {
	ID            uuid.UUID `json:"id"`
	Recipient     string    `json:"recipient"`
	Phone         string    `json:"phone"`
	Line1         string    `json:"line1"`
	ProvinceID    int       `json:"province_id"`
	DistrictID    int       `json:"district_id"`
	WardCode      string    `json:"ward_code"`
	IsDefault     bool      `json:"is_default"`
	IsDeliverable bool      `json:"is_deliverable"`
}

func newAddressView(addr *address.Address) AddressView {
	return AddressView{
		ID:            addr.ID,
		Recipient:     addr.Recipient,
		Phone:         addr.Phone,
		Line1:         addr.Line1,
		ProvinceID:    addr.Destination.ProvinceID(),
		DistrictID:    addr.Destination.DistrictID(),
		WardCode:      addr.Destination.WardCode(),
		IsDefault:     addr.IsDefault,
		IsDeliverable: addr.IsDeliverable(),
	}
}

// List returns the account's addresses, default first
func (h *AddressHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	entries, err := h.addresses.FindByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]AddressView, len(entries))
	for i, entry := range entries {
		views[i] = newAddressView(entry)
	}
	respondOK(c, views)
}

// Create adds an address book entry. A partially resolved destination is
// accepted; it just cannot be used for checkout until district and ward are
// filled in.
func (h *AddressHandler) Create(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	dest, err := h.destination(req)
	if err != nil {
		respondError(c, err)
		return
	}
	addr, err := address.NewAddress(userID, req.Recipient, req.Phone, req.Line1, dest)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.addresses.Save(c.Request.Context(), addr); err != nil {
		respondError(c, err)
		return
	}
	if req.IsDefault {
		if err := h.addresses.SetDefault(c.Request.Context(), userID, addr.ID); err != nil {
			respondError(c, err)
			return
		}
		addr.MarkDefault()
	}
	respondCreated(c, newAddressView(addr))
}

// Update rewrites an existing entry
func (h *AddressHandler) Update(c *gin.Context) {
	addr, ok := h.ownedAddress(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dest, err := h.destination(req)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := addr.Update(req.Recipient, req.Phone, req.Line1, dest); err != nil {
		respondError(c, err)
		return
	}
	if err := h.addresses.Save(c.Request.Context(), addr); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, newAddressView(addr))
}

// SetDefault marks an entry as the account's default address
func (h *AddressHandler) SetDefault(c *gin.Context) {
	addr, ok := h.ownedAddress(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.addresses.SetDefault(c.Request.Context(), userID, addr.ID); err != nil {
		respondError(c, err)
		return
	}
	addr.MarkDefault()
	respondOK(c, newAddressView(addr))
}

// Delete removes an entry
func (h *AddressHandler) Delete(c *gin.Context) {
	addr, ok := h.ownedAddress(c)
	if !ok {
		return
	}
	if err := h.addresses.Delete(c.Request.Context(), addr.ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// ownedAddress loads the path address and verifies it belongs to the caller.
// A foreign address reads as not found, not forbidden, to avoid leaking that
// the ID exists.
func (h *AddressHandler) ownedAddress(c *gin.Context) (*address.Address, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondBadRequest(c, "id must be a UUID")
		return nil, false
	}
	addressID, err := uuid.Parse(req.ID)
	if err != nil {
		respondBadRequest(c, "id must be a UUID")
		return nil, false
	}

	addr, err := h.addresses.FindByID(c.Request.Context(), addressID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	userID, _ := middleware.GetUserID(c)
	if addr.UserID != userID {
		respondError(c, shared.ErrNotFound)
		return nil, false
	}
	return addr, true
}

func (h *AddressHandler) destination(req AddressRequest) (valueobject.Destination, error) {
	if req.DistrictID == 0 && req.WardCode == "" {
		return valueobject.EmptyDestination(), nil
	}
	dest, err := valueobject.NewDestination(req.ProvinceID, req.DistrictID, req.WardCode)
	if err != nil {
		return valueobject.Destination{}, shared.NewDomainError("INVALID_DESTINATION", err.Error())
	}
	return dest, nil
}
