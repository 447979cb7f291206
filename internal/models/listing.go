package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allowed values for the enumerated listing fields. An empty string is
// always accepted and means "not specified".
const (
	PropertyTypes  = "house apartment condo townhouse villa land commercial"
	ListingStates  = "for-sale for-rent sold rented pending"
	FurnishedKinds = "furnished semi-furnished unfurnished"
)

// Listing is a single property shown in the admin tables.
type Listing struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Title        string    `json:"title" gorm:"not null"`
	Image        string    `json:"image,omitempty"`
	Description  string    `json:"description,omitempty"`
	Price        *float64  `json:"price,omitempty"`
	Location     string    `json:"location,omitempty"`
	Bedrooms     *int      `json:"bedrooms,omitempty"`
	Bathrooms    *int      `json:"bathrooms,omitempty"`
	Area         string    `json:"area,omitempty"`
	PropertyType string    `json:"propertyType,omitempty" gorm:"index"`
	Status       string    `json:"status,omitempty" gorm:"index"`
	YearBuilt    string    `json:"yearBuilt,omitempty"`
	Parking      string    `json:"parking,omitempty"`
	Furnished    string    `json:"furnished,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the database table name for the Listing model.
func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate assigns a fresh id.
func (l *Listing) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ListingFilter narrows a listing query. Empty fields match everything.
type ListingFilter struct {
	Status       string
	PropertyType string
}

// ListingStats summarises listings for the dashboard.
type ListingStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"byStatus"`
	ByPropertyType map[string]int64 `json:"byPropertyType"`
}

// GroupCount is one row of a grouped count query.
type GroupCount struct {
	Key   string `gorm:"column:group_key"`
	Count int64  `gorm:"column:group_count"`
}
