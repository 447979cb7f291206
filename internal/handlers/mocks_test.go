package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/auth"
	"github.com/manojtanwar99/stayvira/internal/middleware"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/service"
	"github.com/manojtanwar99/stayvira/internal/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Setup(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// =============================================================================
// Mock Implementations
// =============================================================================

type mockAuthService struct {
	loginFunc        func(ctx context.Context, email, password string) (*service.LoginResponse, error)
	logoutFunc       func(ctx context.Context) error
	authenticateFunc func(token string) (*auth.Principal, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx)
	}
	return nil
}

func (m *mockAuthService) Authenticate(token string) (*auth.Principal, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(token)
	}
	return nil, errors.New("not implemented")
}

type mockListingService struct {
	listFunc   func(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	getFunc    func(ctx context.Context, id string) (*models.Listing, error)
	createFunc func(ctx context.Context, in service.ListingPatch, image *multipart.FileHeader) (*models.Listing, error)
	updateFunc func(ctx context.Context, id string, in service.ListingPatch, image *multipart.FileHeader) (*models.Listing, error)
	deleteFunc func(ctx context.Context, id string) error
	statsFunc  func(ctx context.Context) (*models.ListingStats, error)
}

func (m *mockListingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Create(ctx context.Context, in service.ListingPatch, image *multipart.FileHeader) (*models.Listing, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Update(ctx context.Context, id string, in service.ListingPatch, image *multipart.FileHeader) (*models.Listing, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockListingService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockListingService) Stats(ctx context.Context) (*models.ListingStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockUserService struct {
	listFunc               func(ctx context.Context) ([]models.User, error)
	getFunc                func(ctx context.Context, id string) (*models.User, error)
	profileFunc            func(ctx context.Context, p *auth.Principal) (*models.User, error)
	createFunc             func(ctx context.Context, in service.CreateUserInput, image *multipart.FileHeader) (*models.User, error)
	updateFunc             func(ctx context.Context, id string, in service.UpdateUserInput, image *multipart.FileHeader) (*models.User, error)
	updateProfileFunc      func(ctx context.Context, p *auth.Principal, in service.ProfileInput, image *multipart.FileHeader) (*models.User, error)
	updateProfileImageFunc func(ctx context.Context, p *auth.Principal, image *multipart.FileHeader) (*models.User, error)
	deleteFunc             func(ctx context.Context, p *auth.Principal, id string) error
}

func (m *mockUserService) List(ctx context.Context) ([]models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Profile(ctx context.Context, p *auth.Principal) (*models.User, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, p)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Create(ctx context.Context, in service.CreateUserInput, image *multipart.FileHeader) (*models.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Update(ctx context.Context, id string, in service.UpdateUserInput, image *multipart.FileHeader) (*models.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) UpdateProfile(ctx context.Context, p *auth.Principal, in service.ProfileInput, image *multipart.FileHeader) (*models.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, p, in, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) UpdateProfileImage(ctx context.Context, p *auth.Principal, image *multipart.FileHeader) (*models.User, error) {
	if m.updateProfileImageFunc != nil {
		return m.updateProfileImageFunc(ctx, p, image)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, p, id)
	}
	return errors.New("not implemented")
}

func (m *mockUserService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	return false, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func createTestContext(method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	c.Request = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

// createMultipartContext builds a multipart request with the given form
// fields and, when fileName is set, an "image" part holding data.
func createMultipartContext(method, path string, fields map[string]string, fileName string, data []byte) (*httptest.ResponseRecorder, *gin.Context) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileName != "" {
		part, _ := mw.CreateFormFile("image", fileName)
		_, _ = part.Write(data)
	}
	_ = mw.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return w, c
}

func withPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(middleware.PrincipalKey, p)
	c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), p))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}
