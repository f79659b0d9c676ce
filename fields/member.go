package fields

import (
	"database/sql/driver"
	"time"
)

// Member is a membership account. MembershipID is the public identifier
// members present at partner facilities, independent of the row id.
type Member struct {
	ID            string     `json:"id"`
	MembershipID  string     `json:"membershipId"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Plan          string     `json:"plan"`
	FamilyMembers int        `json:"familyMembers"`
	FamilyDetails FamilyList `json:"familyDetails"`
	ValidUntil    string     `json:"validUntil,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FamilyMember is a dependant covered by a membership.
type FamilyMember struct {
	Name     string `json:"name"`
	Age      int    `json:"age,omitempty"`
	Relation string `json:"relation,omitempty"`
}

// FamilyList is a []FamilyMember stored as a JSON text column.
type FamilyList []FamilyMember

func (l FamilyList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON(l)
}

func (l *FamilyList) Scan(src any) error {
	return scanJSON(src, l)
}
