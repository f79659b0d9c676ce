// Package dashboard hosts the admin console API: reviewing partner
// applications, browsing members and partners, and the headline stats.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

type Service struct {
	Store  *store.Store
	Config fields.Config
	Logger *logrus.Logger
}

func (s *Service) respondError(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status >= fiber.StatusInternalServerError && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"path":  c.Path(),
			"error": err.Error(),
		}).Error("admin request failed")
	}
	return c.Status(status).JSON(apperr.Payload(err))
}
