package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingForm struct {
	Title        string   `json:"title" binding:"required,notblank"`
	PropertyType string   `json:"propertyType" binding:"property_type"`
	Status       *string  `json:"status" binding:"omitempty,listing_status"`
	Furnished    string   `form:"furnished" binding:"furnishing"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	Role         string   `json:"role" binding:"role"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Register(v))
	return v
}

func TestRegister_AcceptsValidAndEmptyValues(t *testing.T) {
	v := newValidator(t)
	status := "for-rent"

	assert.NoError(t, v.Struct(listingForm{Title: "Loft"}))
	assert.NoError(t, v.Struct(listingForm{
		Title:        "Loft",
		PropertyType: "villa",
		Status:       &status,
		Furnished:    "semi-furnished",
		Role:         "admin",
	}))
}

func TestRegister_RejectsUnknownValues(t *testing.T) {
	v := newValidator(t)
	status := "demolished"
	price := -1.0

	err := v.Struct(listingForm{
		Title:        "   ",
		PropertyType: "castle",
		Status:       &status,
		Furnished:    "partly",
		Price:        &price,
		Role:         "root",
	})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Equal(t, "title is required", msgs["title"])
	assert.Contains(t, msgs["propertyType"], "must be one of")
	assert.Contains(t, msgs["status"], "for-sale")
	assert.Contains(t, msgs["furnished"], "unfurnished")
	assert.Equal(t, "price must be 0 or greater", msgs["price"])
	assert.Equal(t, "role must be admin or user", msgs["role"])
}

func TestMessages_NonValidationError(t *testing.T) {
	assert.Nil(t, Messages(assert.AnError))
	assert.Nil(t, Messages(nil))
}

func TestSetup(t *testing.T) {
	assert.NoError(t, Setup())
}
