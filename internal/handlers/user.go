package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/middleware"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/service"
)

// UserHandler handles account management and profile requests.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	UserName  string `json:"userName" form:"userName" binding:"required,notblank,max=100"`
	FirstName string `json:"firstName" form:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" form:"lastName" binding:"max=100"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=8,max=72"`
	Role      string `json:"role" form:"role" binding:"role"`
}

// UpdateUserRequest is an administrator's partial update of an account.
type UpdateUserRequest struct {
	UserName  *string `json:"userName" form:"userName" binding:"omitempty,notblank,max=100"`
	FirstName *string `json:"firstName" form:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" form:"lastName" binding:"omitempty,max=100"`
	Email     *string `json:"email" form:"email" binding:"omitempty,email"`
	Password  *string `json:"password" form:"password" binding:"omitempty,min=8,max=72"`
	Role      *string `json:"role" form:"role" binding:"omitempty,role"`
}

// ProfileRequest is a user's partial update of their own account.
type ProfileRequest struct {
	UserName  *string `json:"userName" form:"userName" binding:"omitempty,notblank,max=100"`
	FirstName *string `json:"firstName" form:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" form:"lastName" binding:"omitempty,max=100"`
	Email     *string `json:"email" form:"email" binding:"omitempty,email"`
}

// UploadImageResponse is returned after a profile image upload.
type UploadImageResponse struct {
	ImageURL string       `json:"imageUrl"`
	Message  string       `json:"message"`
	User     *models.User `json:"user"`
}

// List godoc
// @Summary List accounts
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get account
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary Create account
// @Tags users
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param request body CreateUserRequest true "Account"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      models.Role(req.Role),
	}, image)
	if err != nil {
		respondServiceError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update account
// @Tags users
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	in := service.UpdateUserInput{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), in, image)
	if err != nil {
		respondServiceError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete account
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	if err := h.users.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondServiceError(c, err, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}

// Profile godoc
// @Summary Current account
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}
	user, err := h.users.Profile(c.Request.Context(), principal)
	if err != nil {
		respondServiceError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update current account
// @Description Password and role cannot be changed here
// @Tags users
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param request body ProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}
	var req ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), principal, service.ProfileInput{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, image)
	if err != nil {
		respondServiceError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadImage godoc
// @Summary Upload profile image
// @Tags users
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} UploadImageResponse
// @Failure 400 {object} ErrorResponse
// @Router /users/upload-image [post]
func (h *UserHandler) UploadImage(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil || image == nil {
		RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	user, err := h.users.UpdateProfileImage(c.Request.Context(), principal, image)
	if err != nil {
		respondServiceError(c, err, "failed to upload image")
		return
	}
	c.JSON(http.StatusOK, UploadImageResponse{
		ImageURL: user.ProfileImage,
		Message:  "Image uploaded successfully",
		User:     user,
	})
}
