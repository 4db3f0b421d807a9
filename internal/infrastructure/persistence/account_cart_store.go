package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountCartStore implements cart.AccountCartStore on postgres, one row
// per (user, product) pair
type GormAccountCartStore struct {
	db *gorm.DB
}

// NewGormAccountCartStore creates a new account cart store
func NewGormAccountCartStore(db *gorm.DB) *GormAccountCartStore {
	return &GormAccountCartStore{db: db}
}

// Load returns the account's cart lines in insertion order
func (s *GormAccountCartStore) Load(ctx context.Context, userID uuid.UUID) ([]cart.PersistedLine, error) {
	var rows []models.CartLineModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]cart.PersistedLine, len(rows))
	for i, row := range rows {
		lines[i] = row.ToPersistedLine()
	}
	return lines, nil
}

// Replace swaps the account's full line set in one transaction. Merge results
// and debounced cart writes both land here, so a partial write is never
// visible to a concurrent load.
func (s *GormAccountCartStore) Replace(ctx context.Context, userID uuid.UUID, lines []cart.PersistedLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.CartLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		rows := make([]models.CartLineModel, len(lines))
		for i, line := range lines {
			rows[i] = models.CartLineModelFromPersisted(userID, i, line)
		}
		return tx.Create(&rows).Error
	})
}

// RemoveProducts deletes the rows for the given products only
func (s *GormAccountCartStore) RemoveProducts(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&models.CartLineModel{}).Error
}

// Clear removes every row for the account
func (s *GormAccountCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLineModel{}).Error
}

var _ cart.AccountCartStore = (*GormAccountCartStore)(nil)
