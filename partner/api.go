package partner

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

// ListPartners is the public directory of approved partners, filterable by
// free-text query, type, state and district.
func (s *Service) ListPartners(c *fiber.Ctx) error {
	page, limit := pageParams(c, 10)
	filter := store.PartnerFilter{
		Status:   fields.StatusActive,
		Query:    c.Query("q"),
		Type:     c.Query("type"),
		State:    c.Query("state"),
		District: c.Query("district"),
	}

	partners, total, err := s.Store.ListPartners(c.UserContext(), filter, page, limit)
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"partners":   partners,
		"pagination": fields.PaginationMap(page, limit, total, "totalPartners"),
	})
}

// VerifyMembership checks a membership id presented at the counter. Unknown
// ids answer 404 with valid:false so the partner app can show a soft
// rejection instead of an error screen.
func (s *Service) VerifyMembership(c *fiber.Ctx) error {
	var req struct {
		MembershipID string `json:"membershipId"`
	}
	if len(c.Body()) > 0 {
		if err := parseJSON(c, &req); err != nil {
			return respondError(c, s.Logger, err)
		}
	}
	membershipID := req.MembershipID
	if membershipID == "" {
		membershipID = c.Query("membershipId")
	}
	if membershipID == "" {
		return respondError(c, s.Logger, apperr.New("validation_error", http.StatusBadRequest, "membershipId is required"))
	}

	m, err := s.Store.GetMemberByMembershipID(c.UserContext(), membershipID)
	if err != nil {
		if store.IsNotFound(err) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"valid":   false,
				"message": "Membership not found",
			})
		}
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"valid":    true,
		"discount": s.Config.Discount.Format(m),
		"member": fiber.Map{
			"membershipId":  m.MembershipID,
			"name":          m.Name,
			"plan":          m.Plan,
			"familyMembers": m.FamilyMembers,
			"familyDetails": m.FamilyDetails,
			"validUntil":    m.ValidUntil,
			"status":        m.Status,
		},
	})
}

type recordVisitRequest struct {
	MemberID        string   `json:"memberId"`
	MembershipID    string   `json:"membershipId"`
	PartnerID       string   `json:"partnerId"`
	Service         string   `json:"service"`
	DiscountApplied *float64 `json:"discountApplied"`
	SavedAmount     float64  `json:"savedAmount"`
}

// RecordVisit appends a visit to the ledger and bumps the partner's
// members-served counter. The partner id comes from the token unless the
// body names one explicitly.
func (s *Service) RecordVisit(c *fiber.Ctx) error {
	var req recordVisitRequest
	if err := parseJSON(c, &req); err != nil {
		return respondError(c, s.Logger, err)
	}

	var member *fields.Member
	var err error
	switch {
	case req.MemberID != "":
		member, err = s.Store.GetMember(c.UserContext(), req.MemberID)
	case req.MembershipID != "":
		member, err = s.Store.GetMemberByMembershipID(c.UserContext(), req.MembershipID)
	default:
		return respondError(c, s.Logger, apperr.New("validation_error", http.StatusBadRequest, "memberId or membershipId is required"))
	}
	if err != nil {
		if store.IsNotFound(err) {
			return respondError(c, s.Logger, apperr.New("not_found", http.StatusNotFound, "Member not found"))
		}
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	partnerID := req.PartnerID
	if partnerID == "" {
		partnerID = gateway.AuthID(c)
	}
	if partnerID == "" {
		return respondError(c, s.Logger, apperr.ErrUnauthorized)
	}

	// the ledger records the discount the partner actually granted; the
	// policy rate is only a fallback when the caller omits it
	discount := float64(s.Config.Discount.Rate(member))
	if req.DiscountApplied != nil {
		discount = *req.DiscountApplied
	}

	visit := &fields.Visit{
		ID:              uuid.NewString(),
		MemberID:        member.ID,
		PartnerID:       partnerID,
		Service:         req.Service,
		DiscountApplied: discount,
		SavedAmount:     req.SavedAmount,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Store.RecordVisit(c.UserContext(), visit); err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusCreated).JSON(visit)
}

// MyVisits is the member-facing visit history, newest first, capped at the
// last ten visits.
func (s *Service) MyVisits(c *fiber.Ctx) error {
	memberID := gateway.AuthID(c)
	if memberID == "" {
		return respondError(c, s.Logger, apperr.ErrUnauthorized)
	}

	visits, err := s.Store.VisitsForMember(c.UserContext(), memberID, 10)
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	out := make([]fiber.Map, 0, len(visits))
	for _, v := range visits {
		service := v.Service
		if service == "" {
			service = "General Consultation"
		}
		doctor := ""
		if v.PartnerResponsible != nil {
			doctor = v.PartnerResponsible.Name
		}
		out = append(out, fiber.Map{
			"id":           v.ID,
			"hospitalName": v.PartnerName,
			"doctorName":   doctor,
			"address":      v.PartnerAddress,
			"visitedTime":  v.CreatedAt,
			"service":      service,
		})
	}

	return c.Status(http.StatusOK).JSON(out)
}

// PartnerStats summarizes the authenticated partner's activity for its
// dashboard card.
func (s *Service) PartnerStats(c *fiber.Ctx) error {
	partnerID := gateway.AuthID(c)
	if partnerID == "" {
		return respondError(c, s.Logger, apperr.ErrUnauthorized)
	}

	p, err := s.Store.GetPartner(c.UserContext(), partnerID)
	if err != nil {
		if store.IsNotFound(err) {
			return respondError(c, s.Logger, apperr.New("not_found", http.StatusNotFound, "Partner not found"))
		}
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly, err := s.Store.VisitCountSince(c.UserContext(), partnerID, monthStart)
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"membersServed": p.MembersServed,
		"monthlyVisits": monthly,
		"totalRevenue":  0,
		// revenue is not tracked, so the average is a fixed display value
		"averageDiscount": "12.5%",
	})
}

// PartnerVisits is the partner-facing visit history with member details,
// paginated, newest first.
func (s *Service) PartnerVisits(c *fiber.Ctx) error {
	partnerID := gateway.AuthID(c)
	if partnerID == "" {
		return respondError(c, s.Logger, apperr.ErrUnauthorized)
	}

	page, limit := pageParams(c, 10)
	visits, total, err := s.Store.VisitsForPartner(c.UserContext(), partnerID, page, limit)
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	out := make([]fiber.Map, 0, len(visits))
	for _, v := range visits {
		service := v.Service
		if service == "" {
			service = "General Service"
		}
		out = append(out, fiber.Map{
			"id":           v.ID,
			"memberName":   v.MemberName,
			"membershipId": v.MembershipID,
			"email":        v.MemberEmail,
			"phone":        v.MemberPhone,
			"service":      service,
			"discount":     fmt.Sprintf("%v%%", v.DiscountApplied),
			"savedAmount":  v.SavedAmount,
			"date":         v.CreatedAt.Format("2006-01-02"),
			"time":         v.CreatedAt.Format("15:04"),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"visits":     out,
		"pagination": fields.PaginationMap(page, limit, total, "totalVisits"),
	})
}

func pageParams(c *fiber.Ctx, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
