package dashboard

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/partner"
	"github.com/medico-app/medico/store"
)

// applicationsCap bounds how many pending applications a single review
// screen loads.
const applicationsCap = 200

// ListApplications returns pending applications with their uploaded
// documents inlined as data URIs, so the review UI needs no follow-up
// fetches. A document missing on disk renders as null rather than failing
// the whole listing.
func (s *Service) ListApplications(c *fiber.Ctx) error {
	apps, err := s.Store.ListApplications(c.UserContext(), applicationsCap)
	if err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	out := make([]map[string]any, 0, len(apps))
	for i := range apps {
		view, err := s.applicationView(&apps[i])
		if err != nil {
			return s.respondError(c, apperr.Wrap(err, apperr.ErrInternal, ""))
		}
		out = append(out, view)
	}

	return c.Status(http.StatusOK).JSON(out)
}

// applicationView renders a partner with its file path fields swapped for
// inline data URIs.
func (s *Service) applicationView(p *fields.Partner) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	view := map[string]any{}
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, err
	}

	view["passportPhoto"] = s.inlineFile(p.PassportPhoto)
	view["certificateFile"] = s.inlineFile(p.CertificateFile)

	photos := make([]any, 0, len(p.ClinicPhotos))
	for _, rel := range p.ClinicPhotos {
		photos = append(photos, s.inlineFile(rel))
	}
	view["clinicPhotos"] = photos
	return view, nil
}

func (s *Service) inlineFile(rel string) any {
	if rel == "" {
		return nil
	}
	data, err := os.ReadFile(partner.DiskPath(s.Config, rel))
	if err != nil {
		if s.Logger != nil && !os.IsNotExist(err) {
			s.Logger.WithField("path", rel).Warnf("could not read upload: %v", err)
		}
		return nil
	}
	return fmt.Sprintf("data:%s;base64,%s", partner.MimeTypeByExt(rel), base64.StdEncoding.EncodeToString(data))
}

// Approve flips a pending application to Active, making the partner
// visible in the public directory and able to log in.
func (s *Service) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.Store.SetPartnerStatus(c.UserContext(), id, fields.StatusActive); err != nil {
		if store.IsNotFound(err) {
			return s.respondError(c, apperr.New("not_found", http.StatusNotFound, "Application not found"))
		}
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Application approved successfully"})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject removes a pending application outright: its uploaded documents
// are deleted best-effort, then the record itself. The reason is accepted
// for the audit log but the record does not survive to carry it.
func (s *Service) Reject(c *fiber.Ctx) error {
	id := c.Params("id")

	p, err := s.Store.GetPartner(c.UserContext(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return s.respondError(c, apperr.New("not_found", http.StatusNotFound, "Application not found"))
		}
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	var req rejectRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return s.respondError(c, apperr.Wrap(err, apperr.ErrBadRequest, "malformed json body"))
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(map[string]any{
			"partner_id": p.ID,
			"email":      p.Email,
			"reason":     req.Reason,
		}).Info("application rejected")
	}

	if err := s.removeUploads(p.ID); err != nil {
		s.Logger.WithField("partner_id", p.ID).Warnf("could not remove uploads: %v", err)
	}
	if err := s.Store.DeletePartner(c.UserContext(), p.ID); err != nil {
		return s.respondError(c, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Application rejected and removed"})
}

func (s *Service) removeUploads(partnerID string) error {
	root := s.Config.UploadDir
	if root == "" {
		root = "uploads"
	}
	return os.RemoveAll(filepath.Join(root, "partners", partnerID))
}
