package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VendorProfile is the storefront record of a user holding an active VENDOR
// role. Exactly one profile may exist per user; the storage layer enforces it.
type VendorProfile struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"userId"`
	StoreNameEn string      `json:"storeNameEn"`
	StoreNameAr string      `json:"storeNameAr"`
	Slug        string      `json:"slug"`
	Description null.String `json:"description,omitempty"`
	IsVerified  bool        `json:"isVerified"`
	IsActive    bool        `json:"isActive"`
	VerifiedAt  null.Time   `json:"verifiedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CreateVendorProfileInput represents input for storefront creation
type CreateVendorProfileInput struct {
	StoreNameEn string `json:"storeNameEn" binding:"required,min=2,max=255"`
	StoreNameAr string `json:"storeNameAr" binding:"required,min=2,max=255"`
	Slug        string `json:"slug" binding:"required,min=2,max=100,lowercase"`
	Description string `json:"description,omitempty"`
}

/// CustomerProfile is the 1:1 customer extension of a user
type CustomerProfile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Language  string    `json:"language"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
