package service

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"

	"github.com/manojtanwar99/stayvira/internal/models"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	findByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	listFunc        func(ctx context.Context) ([]models.User, error)
	createFunc      func(ctx context.Context, user *models.User) error
	updateFunc      func(ctx context.Context, user *models.User) error
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock ListingRepository
// =============================================================================

type mockListingRepository struct {
	listFunc     func(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	findByIDFunc func(ctx context.Context, id string) (*models.Listing, error)
	createFunc   func(ctx context.Context, listing *models.Listing) error
	updateFunc   func(ctx context.Context, listing *models.Listing) error
	deleteFunc   func(ctx context.Context, id string) error
	countFunc    func(ctx context.Context) (int64, error)
	countByFunc  func(ctx context.Context, column string) ([]models.GroupCount, error)
}

func (m *mockListingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, listing)
	}
	return errors.New("not implemented")
}

func (m *mockListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, listing)
	}
	return errors.New("not implemented")
}

func (m *mockListingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockListingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, errors.New("not implemented")
}

func (m *mockListingRepository) CountBy(ctx context.Context, column string) ([]models.GroupCount, error) {
	if m.countByFunc != nil {
		return m.countByFunc(ctx, column)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Fake ImageStore
// =============================================================================

type fakeImageStore struct {
	mu      sync.Mutex
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeImageStore) Save(_ context.Context, field string, fh *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := "/uploads/" + field + "-" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}
