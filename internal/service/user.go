package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/manojtanwar99/stayvira/internal/auth"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/repository"
	"github.com/manojtanwar99/stayvira/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
	ErrSelfDelete   = errors.New("cannot delete your own account")
	ErrInvalidRole  = errors.New("invalid role")
)

// CreateUserInput holds the fields for a new account.
type CreateUserInput struct {
	UserName  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
}

// UpdateUserInput is a partial update applied by an administrator.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	UserName  *string
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *models.Role
}

// ProfileInput is a partial update a user applies to their own account.
// It cannot change password or role.
type ProfileInput struct {
	UserName  *string
	FirstName *string
	LastName  *string
	Email     *string
}

// UserService manages accounts.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Profile(ctx context.Context, p *auth.Principal) (*models.User, error)
	Create(ctx context.Context, in CreateUserInput, image *multipart.FileHeader) (*models.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput, image *multipart.FileHeader) (*models.User, error)
	UpdateProfile(ctx context.Context, p *auth.Principal, in ProfileInput, image *multipart.FileHeader) (*models.User, error)
	UpdateProfileImage(ctx context.Context, p *auth.Principal, image *multipart.FileHeader) (*models.User, error)
	Delete(ctx context.Context, p *auth.Principal, id string) error
	EnsureAdmin(ctx context.Context, email, password, name string) (created bool, err error)
}

type userService struct {
	repo       repository.UserRepository
	images     storage.ImageStore
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(repo repository.UserRepository, images storage.ImageStore, bcryptCost int, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		repo:       repo,
		images:     images,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *userService) Profile(ctx context.Context, p *auth.Principal) (*models.User, error) {
	if p == nil {
		return nil, ErrInvalidToken
	}
	return s.Get(ctx, p.Subject)
}

func (s *userService) Create(ctx context.Context, in CreateUserInput, image *multipart.FileHeader) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:     strings.TrimSpace(in.UserName),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        models.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
	}

	if image != nil {
		url, err := s.images.Save(ctx, "image", image)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = url
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.discardImage(ctx, user.ProfileImage)
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput, image *multipart.FileHeader) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}

	applyProfile(user, ProfileInput{
		UserName:  in.UserName,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	})
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return s.save(ctx, user, image)
}

func (s *userService) UpdateProfile(ctx context.Context, p *auth.Principal, in ProfileInput, image *multipart.FileHeader) (*models.User, error) {
	user, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	applyProfile(user, in)
	return s.save(ctx, user, image)
}

func (s *userService) UpdateProfileImage(ctx context.Context, p *auth.Principal, image *multipart.FileHeader) (*models.User, error) {
	if image == nil {
		return nil, errors.New("no image provided")
	}
	user, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, image)
}

func (s *userService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if p != nil && p.Subject == id {
		return ErrSelfDelete
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapUserErr(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapUserErr(err)
	}
	s.discardImage(ctx, user.ProfileImage)
	return nil
}

// EnsureAdmin creates the admin account or, when the email already exists,
// promotes it to admin and resets its password.
func (s *userService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, ErrMissingCredentials
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
		user = &models.User{
			UserName:     strings.SplitN(email, "@", 2)[0],
			FirstName:    first,
			LastName:     strings.TrimSpace(last),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return false, mapUserErr(err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("look up admin: %w", err)
	}

	user.Role = models.RoleAdmin
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return false, mapUserErr(err)
	}
	return false, nil
}

func (s *userService) save(ctx context.Context, user *models.User, image *multipart.FileHeader) (*models.User, error) {
	previous := user.ProfileImage
	if image != nil {
		url, err := s.images.Save(ctx, "image", image)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if user.ProfileImage != previous {
			s.discardImage(ctx, user.ProfileImage)
		}
		return nil, mapUserErr(err)
	}

	if user.ProfileImage != previous {
		s.discardImage(ctx, previous)
	}
	return user, nil
}

func (s *userService) hash(password string) (string, error) {
	if password == "" {
		return "", ErrMissingCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "failed to remove image", "url", url, "error", err)
	}
}

func applyProfile(user *models.User, in ProfileInput) {
	if in.UserName != nil {
		user.UserName = strings.TrimSpace(*in.UserName)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		user.Email = models.NormalizeEmail(*in.Email)
	}
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrEmailTaken
	default:
		return err
	}
}
