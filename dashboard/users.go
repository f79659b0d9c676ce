package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

// GetAllUsers pages through memberships with an optional free-text search
// over name, email and membership id.
func (s *Service) GetAllUsers(c *fiber.Ctx) error {
	page, limit := adminPageParams(c)
	members, total, err := s.Store.ListMembers(c.UserContext(), c.Query("search"), page, limit)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"users":      members,
		"pagination": fields.PaginationMap(page, limit, total, "totalUsers"),
	})
}

// GetAllPartners pages through every partner regardless of status, with
// the same filters as the public directory.
func (s *Service) GetAllPartners(c *fiber.Ctx) error {
	page, limit := adminPageParams(c)
	filter := store.PartnerFilter{
		Status:   c.Query("status"),
		Query:    c.Query("search"),
		Type:     c.Query("type"),
		State:    c.Query("state"),
		District: c.Query("district"),
	}

	partners, total, err := s.Store.ListPartners(c.UserContext(), filter, page, limit)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"partners":   partners,
		"pagination": fields.PaginationMap(page, limit, total, "totalPartners"),
	})
}

// DeletePartner removes a partner record and its stored documents.
func (s *Service) DeletePartner(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.Store.DeletePartner(c.UserContext(), id); err != nil {
		if store.IsNotFound(err) {
			return s.respondError(c, apperr.New("not_found", http.StatusNotFound, "Partner not found"))
		}
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	if err := s.removeUploads(id); err != nil {
		s.Logger.WithField("partner_id", id).Warnf("could not remove uploads: %v", err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Partner deleted successfully"})
}

// DeleteUser removes a membership. Its visit history stays in the ledger.
func (s *Service) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.Store.DeleteMember(c.UserContext(), id); err != nil {
		if store.IsNotFound(err) {
			return s.respondError(c, apperr.New("not_found", http.StatusNotFound, "User not found"))
		}
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "User deleted successfully"})
}

func adminPageParams(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
