package repository

import (
	"context"
	"fmt"

	"github.com/manojtanwar99/stayvira/internal/models"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for listing data operations.
type ListingRepository interface {
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, column string) ([]models.GroupCount, error)
}

// Columns CountBy may group on.
var groupableColumns = map[string]bool{
	"status":        true,
	"property_type": true,
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new ListingRepository instance.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if err := checkID(id); err != nil {
		return nil, fmt.Errorf("failed to find listing by id: %w", err)
	}

	var listing models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listing by id %s: %w", id, translate(err))
	}
	return &listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", translate(err))
	}
	return nil
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return fmt.Errorf("failed to update listing id %s: %w", listing.ID, translate(err))
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing id %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete listing id %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return total, nil
}

func (r *listingRepository) CountBy(ctx context.Context, column string) ([]models.GroupCount, error) {
	if !groupableColumns[column] {
		return nil, fmt.Errorf("cannot group listings by %q", column)
	}

	var rows []models.GroupCount
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select(column + " AS group_key, COUNT(*) AS group_count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count listings by %s: %w", column, err)
	}
	return rows, nil
}
