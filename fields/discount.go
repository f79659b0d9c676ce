package fields

import "fmt"

// DiscountPolicy decides the discount rate for a verified membership. The
// rule is explicit configuration rather than a hardcoded constant: the base
// rate applies to every active membership, and FamilyPercent, when set,
// overrides it for memberships that cover family members.
type DiscountPolicy struct {
	BasePercent   int `yaml:"base_percent"`
	FamilyPercent int `yaml:"family_percent"`
}

func (d *DiscountPolicy) Defaults() {
	if d.BasePercent <= 0 {
		d.BasePercent = 10
	}
}

// Rate returns the discount percent for a member.
func (d DiscountPolicy) Rate(m *Member) int {
	if d.FamilyPercent > 0 && m != nil && m.FamilyMembers > 0 {
		return d.FamilyPercent
	}
	return d.BasePercent
}

// Format renders a rate the way the member-facing apps expect it, e.g. "10%".
func (d DiscountPolicy) Format(m *Member) string {
	return fmt.Sprintf("%d%%", d.Rate(m))
}
