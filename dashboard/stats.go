package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
)

// Stats are the admin home page headline numbers.
func (s *Service) Stats(c *fiber.Ctx) error {
	approved, err := s.Store.CountPartnersByStatus(c.UserContext(), fields.StatusActive)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	members, err := s.Store.CountMembers(c.UserContext())
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"approvedPartners": approved,
		"totalUsers":       members,
	})
}

// RecentMembers lists the five newest memberships for the activity feed.
func (s *Service) RecentMembers(c *fiber.Ctx) error {
	members, err := s.Store.RecentMembers(c.UserContext(), 5)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	out := make([]fiber.Map, 0, len(members))
	for _, m := range members {
		plan := m.Plan
		if m.FamilyMembers > 0 {
			plan = fmt.Sprintf("%s (%d family)", m.Plan, m.FamilyMembers)
		}
		out = append(out, fiber.Map{
			"id":           m.ID,
			"name":         m.Name,
			"membershipId": m.MembershipID,
			"plan":         plan,
			"joinedAt":     m.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"members": out})
}

// RecentPartners lists the five most recently approved partners.
func (s *Service) RecentPartners(c *fiber.Ctx) error {
	partners, err := s.Store.RecentPartners(c.UserContext(), fields.StatusActive, 5)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	out := make([]fiber.Map, 0, len(partners))
	for _, p := range partners {
		out = append(out, fiber.Map{
			"id":             p.ID,
			"name":           p.Name,
			"type":           p.Type,
			"clinicName":     p.ClinicName,
			"specialization": p.Specialization,
			"state":          p.State,
			"joinedAt":       p.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"partners": out})
}
