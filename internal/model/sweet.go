package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sweet represents an inventory item in the shop.
type Sweet struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string          `json:"name" gorm:"size:255;not null;index"`
	Category  string          `json:"category" gorm:"size:255;not null;index"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;default:0"`
	ImageURL  *string         `json:"image_url" gorm:"type:text"` // nil means no image; never an empty string
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate assigns the UUID before inserting the record.
func (s *Sweet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SweetFilter narrows List results.
type SweetFilter struct {
	Category string // exact match when non-empty
	Search   string // case-insensitive name substring when non-empty
}

// SweetUpdate carries a partial update: nil pointers leave the stored value
// untouched, while Image distinguishes "omitted" from an explicit null that
// clears the image.
type SweetUpdate struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Quantity *int
	Image    NullableString
}

// NullableString is a JSON field that records whether it was present at all.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON marks the field as set; a JSON null yields a nil Value.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MarshalJSON round-trips the value for logging and tests.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
