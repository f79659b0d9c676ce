package partner

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
)

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return apperr.ErrEmptyBody
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, "malformed json body")
	}
	if err := fields.ValidateStruct(dst); err != nil {
		return apperr.Wrap(err, apperr.ErrValidation, err.Error())
	}
	return nil
}

func parseJSON(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return apperr.ErrEmptyBody
	}
	return json.Unmarshal(c.Body(), dst)
}

// respondError logs 5xx causes server-side and renders the apperr payload.
// Deliberate errors (validation, auth, not found) pass through with their
// descriptive message.
func respondError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	status := apperr.Status(err)
	if status >= fiber.StatusInternalServerError && logger != nil {
		logger.WithFields(logrus.Fields{
			"path":  c.Path(),
			"error": err.Error(),
		}).Error("request failed")
	}
	return c.Status(status).JSON(apperr.Payload(err))
}
