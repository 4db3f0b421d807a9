package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements address.Repository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new address repository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Save creates or updates an address book entry
func (r *GormAddressRepository) Save(ctx context.Context, addr *address.Address) error {
	model := models.AddressModelFromDomain(addr)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns a user's address book, default entry first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*address.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	addresses := make([]*address.Address, len(rows))
	for i := range rows {
		addresses[i] = rows[i].ToDomain()
	}
	return addresses, nil
}

// FindDefault returns the user's default address
func (r *GormAddressRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*address.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SetDefault marks one address as default and clears the flag on the rest,
// in one transaction so exactly one default survives
func (r *GormAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AddressModel{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Model(&models.AddressModel{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.AddressModel{}).
			Where("id = ?", addressID).
			Update("is_default", true).Error
	})
}

// Delete removes an address book entry
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AddressModel{}, "id = ?", id).Error
}

var _ address.Repository = (*GormAddressRepository)(nil)
