package models

import (
	"fmt"

	"housemanagement/internal/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusApproved QuoteStatus = "approved"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusPending, QuoteStatusApproved:
		return true
	}
	return false
}

const (
	MsgQuoteNeedsDesign        = "Select a custom design or choose a catalog design."
	MsgQuoteNeedsCatalogDesign = "Select a catalog design or choose a custom design."
	MsgQuoteBothReferences     = "A quote cannot reference both a custom design and a catalog design."
	UnnamedDesign              = "Unnamed Design"
)

type Quote struct {
	BaseModel
	DesignID        *uint            `gorm:"uniqueIndex:idx_quotes_design_requester"                                   json:"designId"`
	Design          *HouseDesign     `gorm:"foreignKey:DesignID;constraint:OnDelete:CASCADE"                           json:"design,omitempty"`
	CatalogDesignID *uint            `gorm:"uniqueIndex:idx_quotes_catalog_requester"                                  json:"catalogDesignId"`
	CatalogDesign   *CatalogDesign   `gorm:"foreignKey:CatalogDesignID;constraint:OnDelete:CASCADE"                    json:"catalogDesign,omitempty"`
	RequestedByID   uint             `gorm:"not null;index;uniqueIndex:idx_quotes_design_requester;uniqueIndex:idx_quotes_catalog_requester" json:"requestedById"`
	RequestedBy     *User            `gorm:"foreignKey:RequestedByID;constraint:OnDelete:CASCADE"                      json:"requestedBy,omitempty"`
	Price           *decimal.Decimal `gorm:"type:numeric(14,2)"                                                        json:"price"`
	Status          QuoteStatus      `gorm:"type:text;not null;default:pending;index"                                  json:"status"`
}

func (q *Quote) BeforeSave(tx *gorm.DB) error {
	if q.Status == "" {
		q.Status = QuoteStatusPending
	}
	return q.Validate()
}

// Validate enforces that exactly one design source is referenced.
func (q *Quote) Validate() error {
	hasDesign := q.DesignID != nil
	hasCatalog := q.CatalogDesignID != nil

	switch {
	case !hasDesign && !hasCatalog:
		return types.NewValidationError().
			Add("design", MsgQuoteNeedsDesign).
			Add("catalog_design", MsgQuoteNeedsCatalogDesign)
	case hasDesign && hasCatalog:
		return types.NewValidationError().
			Add("design", MsgQuoteBothReferences).
			Add("catalog_design", MsgQuoteBothReferences)
	}

	if !q.Status.IsValid() {
		return types.FieldError("status", fmt.Sprintf("%q is not a valid status.", q.Status))
	}
	if q.Price != nil && q.Price.IsNegative() {
		return types.FieldError("price", "Price cannot be negative.")
	}
	return nil
}

func (q *Quote) IsCatalogSource() bool {
	return q.CatalogDesignID != nil && q.DesignID == nil
}

// ReferenceName prefers the custom design when both are loaded.
func (q *Quote) ReferenceName() string {
	if q.Design != nil && q.Design.Title != "" {
		return q.Design.Title
	}
	if q.CatalogDesign != nil && q.CatalogDesign.Name != "" {
		return q.CatalogDesign.Name
	}
	return UnnamedDesign
}

func (q *Quote) ReferenceDescription() string {
	if q.Design != nil {
		return q.Design.Description
	}
	if q.CatalogDesign != nil {
		return q.CatalogDesign.Concept
	}
	return ""
}

func (q *Quote) ReferenceCode() string {
	if q.DesignID != nil {
		return fmt.Sprintf("HD-%04d", *q.DesignID)
	}
	if q.CatalogDesignID != nil {
		return fmt.Sprintf("CAT-%04d", *q.CatalogDesignID)
	}
	return "N/A"
}
