package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/repository"
	"github.com/manojtanwar99/stayvira/internal/storage"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrTitleRequired   = errors.New("title is required")
)

// unspecifiedKey labels listings whose enumerated field is empty in stats.
const unspecifiedKey = "unspecified"

// ListingPatch carries listing fields. On create every non-nil field is
// copied; on update only non-nil fields replace the stored values.
type ListingPatch struct {
	Title        *string
	Description  *string
	Price        *float64
	Location     *string
	Bedrooms     *int
	Bathrooms    *int
	Area         *string
	PropertyType *string
	Status       *string
	YearBuilt    *string
	Parking      *string
	Furnished    *string
}

// Apply copies the non-nil fields of p onto l.
func (p ListingPatch) Apply(l *models.Listing) {
	setString(&l.Title, p.Title)
	setString(&l.Description, p.Description)
	setString(&l.Location, p.Location)
	setString(&l.Area, p.Area)
	setString(&l.PropertyType, p.PropertyType)
	setString(&l.Status, p.Status)
	setString(&l.YearBuilt, p.YearBuilt)
	setString(&l.Parking, p.Parking)
	setString(&l.Furnished, p.Furnished)
	if p.Price != nil {
		price := *p.Price
		l.Price = &price
	}
	if p.Bedrooms != nil {
		n := *p.Bedrooms
		l.Bedrooms = &n
	}
	if p.Bathrooms != nil {
		n := *p.Bathrooms
		l.Bathrooms = &n
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// ListingService manages property listings.
type ListingService interface {
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, in ListingPatch, image *multipart.FileHeader) (*models.Listing, error)
	Update(ctx context.Context, id string, in ListingPatch, image *multipart.FileHeader) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.ListingStats, error)
}

type listingService struct {
	repo   repository.ListingRepository
	images storage.ImageStore
	logger *slog.Logger
}

// NewListingService creates a new ListingService instance.
func NewListingService(repo repository.ListingRepository, images storage.ImageStore, logger *slog.Logger) ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &listingService{repo: repo, images: images, logger: logger}
}

func (s *listingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

func (s *listingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapListingErr(err)
	}
	return listing, nil
}

func (s *listingService) Create(ctx context.Context, in ListingPatch, image *multipart.FileHeader) (*models.Listing, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, ErrTitleRequired
	}

	listing := &models.Listing{}
	in.Apply(listing)

	if image != nil {
		url, err := s.images.Save(ctx, "image", image)
		if err != nil {
			return nil, err
		}
		listing.Image = url
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.discardImage(ctx, listing.Image)
		return nil, mapListingErr(err)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, id string, in ListingPatch, image *multipart.FileHeader) (*models.Listing, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrTitleRequired
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapListingErr(err)
	}
	in.Apply(listing)

	previous := listing.Image
	if image != nil {
		url, err := s.images.Save(ctx, "image", image)
		if err != nil {
			return nil, err
		}
		listing.Image = url
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		if listing.Image != previous {
			s.discardImage(ctx, listing.Image)
		}
		return nil, mapListingErr(err)
	}

	if listing.Image != previous {
		s.discardImage(ctx, previous)
	}
	return listing, nil
}

func (s *listingService) Delete(ctx context.Context, id string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapListingErr(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapListingErr(err)
	}
	s.discardImage(ctx, listing.Image)
	return nil
}

func (s *listingService) Stats(ctx context.Context) (*models.ListingStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	byType, err := s.countBy(ctx, "property_type")
	if err != nil {
		return nil, err
	}

	return &models.ListingStats{
		Total:          total,
		ByStatus:       byStatus,
		ByPropertyType: byType,
	}, nil
}

func (s *listingService) countBy(ctx context.Context, column string) (map[string]int64, error) {
	rows, err := s.repo.CountBy(ctx, column)
	if err != nil {
		return nil, fmt.Errorf("listing stats: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := row.Key
		if key == "" {
			key = unspecifiedKey
		}
		counts[key] += row.Count
	}
	return counts, nil
}

func (s *listingService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "failed to remove image", "url", url, "error", err)
	}
}

func mapListingErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrListingNotFound
	}
	return err
}
