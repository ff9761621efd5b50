package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Branch struct {
	BaseUUIDModel
	Name    string  `gorm:"type:text;not null" json:"name"`
	Address *string `gorm:"type:text"          json:"address"`

	// QRCode is the sole credential proving a scan originated from this
	// physical location. Generated once at creation, never changed.
	QRCode string `gorm:"type:text;uniqueIndex;not null" json:"qrCode"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *Client   `gorm:"foreignKey:ClientID"      json:"client,omitempty"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.QRCode == "" {
		b.QRCode = NewQRCode()
	}
	return nil
}

// NewQRCode generates an opaque unique branch token.
func NewQRCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
