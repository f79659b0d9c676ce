package fields

import "time"

// Visit is an immutable record of a member receiving a discounted service
// at a partner. Visits are append-only: they are never updated or deleted.
type Visit struct {
	ID              string    `json:"id"`
	MemberID        string    `json:"memberId"`
	PartnerID       string    `json:"partnerId"`
	Service         string    `json:"service,omitempty"`
	DiscountApplied float64   `json:"discountApplied"`
	SavedAmount     float64   `json:"savedAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}
