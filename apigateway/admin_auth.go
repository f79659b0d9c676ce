package gateway

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
)

// RequireAdmin guards the admin console routes. Admins authenticate with
// the shared X-Admin-Key header or HTTP basic credentials from the config;
// an unconfigured guard refuses rather than falling open. Debug deployments
// bypass the check.
func RequireAdmin(cfg fields.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.IsDebug {
			return c.Next()
		}

		if cfg.AdminKey != "" {
			key := strings.TrimSpace(c.Get("X-Admin-Key"))
			if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.AdminKey)) == 1 {
				return c.Next()
			}
		}

		if cfg.AdminUser != "" && cfg.AdminPassword != "" {
			if adminBasicAuth(c.Get("Authorization"), cfg.AdminUser, cfg.AdminPassword) {
				return c.Next()
			}
		}

		if cfg.AdminKey == "" && (cfg.AdminUser == "" || cfg.AdminPassword == "") {
			err := apperr.New("admin_auth_not_configured", http.StatusServiceUnavailable,
				"admin access is not configured on this deployment")
			return c.Status(apperr.Status(err)).JSON(apperr.Payload(err))
		}

		err := apperr.New("unauthorized", http.StatusUnauthorized, "admin credentials rejected")
		return c.Status(apperr.Status(err)).JSON(apperr.Payload(err))
	}
}

func adminBasicAuth(header, user, pass string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}
	gotUser, gotPass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(gotPass), []byte(pass)) == 1
	return userOK && passOK
}
