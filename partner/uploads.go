package partner

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
)

const (
	maxUploadSize   = 10 << 20 // per file
	maxClinicPhotos = 6
)

// uploadSet is the resolved relative paths of a registration's documents.
type uploadSet struct {
	PassportPhoto   string
	CertificateFile string
	ClinicPhotos    []string
}

// saveUploads persists a registration's files under the partner's own
// storage key (uploads/partners/<id>/). All files of one request share a
// timestamp prefix so colliding original names stay distinct. Returned
// paths are relative, suitable for static serving and for storing on the
// record.
func (s *Service) saveUploads(form *multipart.Form, partnerID string) (*uploadSet, error) {
	if form == nil {
		return &uploadSet{}, nil
	}

	set := &uploadSet{}
	ts := time.Now().UnixMilli()

	if files := form.File["passportPhoto"]; len(files) > 0 {
		rel, err := s.saveFile(files[0], partnerID, fmt.Sprintf("passport_%d_%s", ts, sanitizeName(files[0].Filename)))
		if err != nil {
			return nil, err
		}
		set.PassportPhoto = rel
	}

	if files := form.File["certificateFile"]; len(files) > 0 {
		rel, err := s.saveFile(files[0], partnerID, fmt.Sprintf("certificate_%d_%s", ts, sanitizeName(files[0].Filename)))
		if err != nil {
			return nil, err
		}
		set.CertificateFile = rel
	}

	photos := form.File["clinicPhotos"]
	if len(photos) > maxClinicPhotos {
		return nil, apperr.Wrap(fmt.Errorf("%d clinic photos sent", len(photos)), apperr.ErrValidation,
			fmt.Sprintf("at most %d clinic photos are allowed", maxClinicPhotos))
	}
	for idx, f := range photos {
		rel, err := s.saveFile(f, partnerID, fmt.Sprintf("clinic_%d_%d_%s", ts, idx, sanitizeName(f.Filename)))
		if err != nil {
			return nil, err
		}
		set.ClinicPhotos = append(set.ClinicPhotos, rel)
	}

	return set, nil
}

func (s *Service) saveFile(fh *multipart.FileHeader, partnerID, name string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", apperr.WithFields(
			apperr.New("validation_error", http.StatusBadRequest, "uploaded file exceeds the 10 MB limit"),
			map[string]any{"file": fh.Filename})
	}

	dir := filepath.Join(s.uploadRoot(), "partners", partnerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(err, apperr.ErrStorage, "")
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(err, apperr.ErrStorage, "")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", apperr.Wrap(err, apperr.ErrStorage, "")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperr.Wrap(err, apperr.ErrStorage, "")
	}

	return path.Join("uploads", "partners", partnerID, name), nil
}

// removeUploads deletes everything under the partner's storage key.
func (s *Service) removeUploads(partnerID string) error {
	return os.RemoveAll(filepath.Join(s.uploadRoot(), "partners", partnerID))
}

func (s *Service) uploadRoot() string {
	if s.Config.UploadDir != "" {
		return s.Config.UploadDir
	}
	return "uploads"
}

// DiskPath resolves a stored relative path (uploads/partners/...) to its
// on-disk location under the configured upload root.
func DiskPath(cfg fields.Config, rel string) string {
	root := cfg.UploadDir
	if root == "" {
		root = "uploads"
	}
	return filepath.Join(root, strings.TrimPrefix(rel, "uploads/"))
}

func sanitizeName(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) {
		return "file"
	}
	return strings.ReplaceAll(base, " ", "_")
}

// MimeTypeByExt maps an uploaded file's extension to its content type for
// inline serving; unknown extensions degrade to octet-stream.
func MimeTypeByExt(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
