package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/manojtanwar99/stayvira/internal/service"
)

// ListingHandler handles property listing requests.
type ListingHandler struct {
	listings service.ListingService
}

// NewListingHandler creates a new ListingHandler instance.
func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// ListingQuery filters the listing index.
type ListingQuery struct {
	Status       string `form:"status" binding:"listing_status"`
	PropertyType string `form:"propertyType" binding:"property_type"`
}

// ListingRequest is accepted as JSON or as multipart form fields alongside
// an optional "image" file. Omitted fields are left unchanged on update.
type ListingRequest struct {
	Title        *string  `json:"title" form:"title" binding:"omitempty,notblank,max=200"`
	Description  *string  `json:"description" form:"description" binding:"omitempty,max=5000"`
	Price        *float64 `json:"price" form:"price" binding:"omitempty,gte=0"`
	Location     *string  `json:"location" form:"location" binding:"omitempty,max=300"`
	Bedrooms     *int     `json:"bedrooms" form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms" form:"bathrooms" binding:"omitempty,gte=0"`
	Area         *string  `json:"area" form:"area" binding:"omitempty,max=100"`
	PropertyType *string  `json:"propertyType" form:"propertyType" binding:"omitempty,property_type"`
	Status       *string  `json:"status" form:"status" binding:"omitempty,listing_status"`
	YearBuilt    *string  `json:"yearBuilt" form:"yearBuilt" binding:"omitempty,max=20"`
	Parking      *string  `json:"parking" form:"parking" binding:"omitempty,max=100"`
	Furnished    *string  `json:"furnished" form:"furnished" binding:"omitempty,furnishing"`
}

func (r ListingRequest) patch() service.ListingPatch {
	return service.ListingPatch{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Location:     r.Location,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Area:         r.Area,
		PropertyType: r.PropertyType,
		Status:       r.Status,
		YearBuilt:    r.YearBuilt,
		Parking:      r.Parking,
		Furnished:    r.Furnished,
	}
}

// List godoc
// @Summary List listings
// @Description Return listings, newest first, optionally filtered
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Param status query string false "Listing status"
// @Param propertyType query string false "Property type"
// @Success 200 {array} models.Listing
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	var query ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	listings, err := h.listings.List(c.Request.Context(), models.ListingFilter{
		Status:       query.Status,
		PropertyType: query.PropertyType,
	})
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to list listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// Stats godoc
// @Summary Listing statistics
// @Description Count listings in total, by status and by property type
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.ListingStats
// @Failure 401 {object} ErrorResponse
// @Router /listings/stats [get]
func (h *ListingHandler) Stats(c *gin.Context) {
	stats, err := h.listings.Stats(c.Request.Context())
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to compute listing stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get godoc
// @Summary Get listing
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Failure 404 {object} ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "failed to load listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Create godoc
// @Summary Create listing
// @Tags listings
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param request body ListingRequest true "Listing"
// @Success 201 {object} models.Listing
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	req, ok := bindListing(c)
	if !ok {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), req.patch(), image)
	if err != nil {
		respondServiceError(c, err, "failed to create listing")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// Update godoc
// @Summary Update listing
// @Description Apply the provided fields to an existing listing
// @Tags listings
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body ListingRequest true "Fields to change"
// @Success 200 {object} models.Listing
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	req, ok := bindListing(c)
	if !ok {
		return
	}
	image, err := optionalFile(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), c.Param("id"), req.patch(), image)
	if err != nil {
		respondServiceError(c, err, "failed to update listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Delete godoc
// @Summary Delete listing
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.listings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "failed to delete listing")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Listing deleted"})
}

func bindListing(c *gin.Context) (ListingRequest, bool) {
	var req ListingRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return req, false
	}
	return req, true
}
