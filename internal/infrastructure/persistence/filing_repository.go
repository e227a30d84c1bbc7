package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/shared"
)

// GormFilingRepository implements filing.Repository using GORM
type GormFilingRepository struct {
	db *gorm.DB
}

// NewGormFilingRepository creates a new GormFilingRepository
func NewGormFilingRepository(db *gorm.DB) *GormFilingRepository {
	return &GormFilingRepository{db: db}
}

// Insert persists a new filing together with its items
func (r *GormFilingRepository) Insert(ctx context.Context, f *filing.Filing) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// FindAll returns all filings ordered by submission date descending
func (r *GormFilingRepository) FindAll(ctx context.Context) ([]*filing.Filing, error) {
	var filings []*filing.Filing
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("submission_date DESC").
		Find(&filings).Error
	if err != nil {
		return nil, err
	}
	return filings, nil
}

// FindByID returns a filing with its items, or shared.ErrNotFound
func (r *GormFilingRepository) FindByID(ctx context.Context, id uuid.UUID) (*filing.Filing, error) {
	var f filing.Filing
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&f, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Replace overwrites the stored filing and its items in a single
// transaction. Items not present in the new document are removed.
func (r *GormFilingRepository) Replace(ctx context.Context, f *filing.Filing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing filing.Filing
		if err := tx.First(&existing, "id = ?", f.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("filing_id = ?", f.ID).Delete(&filing.Item{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&filing.Filing{}).Where("id = ?", f.ID).Updates(map[string]any{
			"shipment_id":    f.ShipmentID,
			"invoice_no":     f.InvoiceNo,
			"port":           f.Port,
			"declared_value": f.DeclaredValue,
			"status":         f.Status,
			"updated_at":     f.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		if len(f.Items) > 0 {
			if err := tx.Create(&f.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes the filing and its items, or shared.ErrNotFound
func (r *GormFilingRepository) Remove(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("filing_id = ?", id).Delete(&filing.Item{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&filing.Filing{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
