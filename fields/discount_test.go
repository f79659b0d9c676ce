package fields

import "testing"

func TestDiscountPolicyRate(t *testing.T) {
	tests := []struct {
		name   string
		policy DiscountPolicy
		member *Member
		want   int
	}{
		{"default base", DiscountPolicy{BasePercent: 10}, &Member{}, 10},
		{"family tier ignored without family", DiscountPolicy{BasePercent: 10, FamilyPercent: 15}, &Member{}, 10},
		{"family tier applied", DiscountPolicy{BasePercent: 10, FamilyPercent: 15}, &Member{FamilyMembers: 3}, 15},
		{"family without tier", DiscountPolicy{BasePercent: 10}, &Member{FamilyMembers: 3}, 10},
		{"nil member", DiscountPolicy{BasePercent: 10, FamilyPercent: 15}, nil, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Rate(tt.member); got != tt.want {
				t.Errorf("Rate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDiscountPolicyFormat(t *testing.T) {
	p := DiscountPolicy{BasePercent: 10}
	if got := p.Format(&Member{}); got != "10%" {
		t.Errorf("Format() = %q, want 10%%", got)
	}
}

func TestDiscountPolicyDefaults(t *testing.T) {
	var p DiscountPolicy
	p.Defaults()
	if p.BasePercent != 10 {
		t.Errorf("default BasePercent = %d, want 10", p.BasePercent)
	}
}

func TestPaginationMap(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{"first of three", 1, 10, 25, 3, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last", 3, 10, 25, 3, false, true},
		{"empty", 1, 10, 0, 0, false, false},
		{"exact fit", 2, 10, 20, 2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaginationMap(tt.page, tt.limit, tt.total, "totalPartners")
			if got["totalPages"] != tt.wantPages {
				t.Errorf("totalPages = %v, want %d", got["totalPages"], tt.wantPages)
			}
			if got["hasNextPage"] != tt.wantNext {
				t.Errorf("hasNextPage = %v, want %v", got["hasNextPage"], tt.wantNext)
			}
			if got["hasPrevPage"] != tt.wantPrev {
				t.Errorf("hasPrevPage = %v, want %v", got["hasPrevPage"], tt.wantPrev)
			}
			if got["totalPartners"] != tt.total {
				t.Errorf("totalPartners = %v, want %d", got["totalPartners"], tt.total)
			}
		})
	}
}
