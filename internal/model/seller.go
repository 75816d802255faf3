package model

import (
	"time"

	"github.com/google/uuid"
)

// SellerStatus is the admin-controlled lifecycle state of a seller.
type SellerStatus string

const (
	SellerStatusPending SellerStatus = "pending"
	SellerStatusActive  SellerStatus = "active"
	SellerStatusBlocked SellerStatus = "blocked"
)

// Valid reports whether s is one of the known statuses.
func (s SellerStatus) Valid() bool {
	switch s {
	case SellerStatusPending, SellerStatusActive, SellerStatusBlocked:
		return true
	}
	return false
}

// Seller is a shop registered by a profile with role seller.
type Seller struct {
	ID         uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ShopName   string       `json:"shop_name" gorm:"size:255;not null;index"`
	Phone      string       `json:"phone" gorm:"size:32;not null"`
	WhatsApp   string       `json:"whatsapp" gorm:"column:whatsapp;size:32;not null"`
	City       string       `json:"city" gorm:"size:120;not null"`
	Address    string       `json:"address" gorm:"type:text"`
	Status     SellerStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	IsVerified bool         `json:"is_verified" gorm:"not null;default:false;index"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// CanWriteOffers reports whether the seller may create or update offers.
// Both flags are required; neither implies the other.
func (s *Seller) CanWriteOffers() bool {
	return s != nil && s.Status == SellerStatusActive && s.IsVerified
}

// ContactInfo renders the contact snapshot stored on every offer the seller writes.
func (s *Seller) ContactInfo() string {
	return "Phone: " + s.Phone + ", WhatsApp: " + s.WhatsApp
}
