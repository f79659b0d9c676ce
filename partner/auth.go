package partner

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/medico-app/medico/apperr"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

// registerRequest mirrors the self-registration form. Required fields are
// enforced before anything is written.
type registerRequest struct {
	Role            string `json:"role"`
	ResponsibleName string `json:"responsibleName"`
	ResponsibleAge  string `json:"responsibleAge"`
	ResponsibleSex  string `json:"responsibleSex"`
	ResponsibleDOB  string `json:"responsibleDOB"`
	Address         string `json:"address"`
	Timings         string `json:"timings"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	CouncilName     string `json:"councilName"`
	CouncilNumber   string `json:"councilNumber"`
	State           string `json:"state"`
	District        string `json:"district"`
	Pincode         string `json:"pincode"`
	ClinicName      string `json:"clinicName"`
	Specialization  string `json:"specialization"`
	TimeFrom        string `json:"timeFrom"`
	TimeTo          string `json:"timeTo"`
	DayFrom         string `json:"dayFrom"`
	DayTo           string `json:"dayTo"`
	DiscountAmount  string `json:"discountAmount"`
	DiscountItems   string `json:"discountItems"`
}

// Register creates a Pending partner application from a multipart form (or
// a bare JSON body) and persists its uploaded documents.
func (s *Service) Register(c *fiber.Ctx) error {
	var req registerRequest

	form, formErr := c.MultipartForm()
	if formErr == nil && form != nil {
		bindMultipartValues(form.Value, &req)
	} else if err := parseJSON(c, &req); err != nil {
		return respondError(c, s.Logger, err)
	}

	if req.ResponsibleName == "" || req.ContactEmail == "" || req.Email == "" || req.Password == "" {
		return respondError(c, s.Logger, apperr.New("validation_error", http.StatusBadRequest, "Missing required fields"))
	}

	exists, err := s.Store.PartnerEmailExists(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	if exists {
		return respondError(c, s.Logger, apperr.New("conflict", http.StatusConflict, "Partner with this email already exists"))
	}

	p := req.toPartner()
	p.ID = uuid.NewString()
	if err := p.HashPassword(); err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrInternal, ""))
	}

	uploads, err := s.saveUploads(form, p.ID)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	p.PassportPhoto = uploads.PassportPhoto
	p.CertificateFile = uploads.CertificateFile
	p.ClinicPhotos = fields.StringList(uploads.ClinicPhotos)

	if err := s.Store.CreatePartner(c.UserContext(), p); err != nil {
		// the record failed but files may be on disk already
		if rmErr := s.removeUploads(p.ID); rmErr != nil {
			s.Logger.WithField("partner_id", p.ID).Warnf("could not remove upload dir: %v", rmErr)
		}
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Partner registered", "partner": p})
}

func (r registerRequest) toPartner() *fields.Partner {
	name := r.ClinicName
	if name == "" {
		name = r.ResponsibleName
	}
	ptype := r.Role
	if ptype == "" {
		ptype = "partner"
	}

	responsible := &fields.Responsible{
		Name: r.ResponsibleName,
		Sex:  r.ResponsibleSex,
		DOB:  r.ResponsibleDOB,
	}
	if age, err := strconv.Atoi(r.ResponsibleAge); err == nil {
		responsible.Age = age
	}

	var council *fields.Council
	if r.CouncilName != "" || r.CouncilNumber != "" {
		council = &fields.Council{Name: r.CouncilName, Number: r.CouncilNumber}
	}

	items := fields.StringList{}
	if r.DiscountItems != "" {
		// multipart forms carry the list as a JSON-encoded string
		if err := json.Unmarshal([]byte(r.DiscountItems), &items); err != nil {
			items = fields.StringList{r.DiscountItems}
		}
	}

	return &fields.Partner{
		Name:           name,
		Type:           ptype,
		ClinicName:     r.ClinicName,
		Specialization: r.Specialization,
		Address:        r.Address,
		ContactEmail:   strings.ToLower(r.ContactEmail),
		ContactPhone:   r.ContactPhone,
		Email:          strings.ToLower(r.Email),
		Password:       r.Password,
		District:       r.District,
		State:          r.State,
		Pincode:        r.Pincode,
		Responsible:    responsible,
		Council:        council,
		Timings:        r.Timings,
		TimeFrom:       r.TimeFrom,
		TimeTo:         r.TimeTo,
		DayFrom:        r.DayFrom,
		DayTo:          r.DayTo,
		DiscountAmount: r.DiscountAmount,
		DiscountItems:  items,
		ClinicPhotos:   fields.StringList{},
		Status:         fields.StatusPending,
	}
}

func bindMultipartValues(values map[string][]string, req *registerRequest) {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	req.Role = get("role")
	req.ResponsibleName = get("responsibleName")
	req.ResponsibleAge = get("responsibleAge")
	req.ResponsibleSex = get("responsibleSex")
	req.ResponsibleDOB = get("responsibleDOB")
	req.Address = get("address")
	req.Timings = get("timings")
	req.ContactEmail = get("contactEmail")
	req.ContactPhone = get("contactPhone")
	req.Email = get("email")
	req.Password = get("password")
	req.CouncilName = get("councilName")
	req.CouncilNumber = get("councilNumber")
	req.State = get("state")
	req.District = get("district")
	req.Pincode = get("pincode")
	req.ClinicName = get("clinicName")
	req.Specialization = get("specialization")
	req.TimeFrom = get("timeFrom")
	req.TimeTo = get("timeTo")
	req.DayFrom = get("dayFrom")
	req.DayTo = get("dayTo")
	req.DiscountAmount = get("discountAmount")
	req.DiscountItems = get("discountItems")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges partner credentials for a bearer token. Only approved
// (Active) partners may log in; everyone else gets the same 401 so the
// response does not leak whether an application exists.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, s.Logger, err)
	}

	p, err := s.Store.GetActivePartnerByEmail(c.UserContext(), req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return respondError(c, s.Logger, apperr.New("unauthorized", http.StatusUnauthorized, "Invalid credentials or account not approved yet"))
		}
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrStorage, ""))
	}
	if !p.ComparePassword(req.Password) {
		return respondError(c, s.Logger, apperr.New("unauthorized", http.StatusUnauthorized, "Invalid credentials"))
	}

	token, err := s.Auth.GenerateJWT(p.ID, p.Email, "partner")
	if err != nil {
		return respondError(c, s.Logger, apperr.Wrap(err, apperr.ErrInternal, ""))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token": token,
		"partner": fiber.Map{
			"id":    p.ID,
			"email": p.Email,
			"name":  p.Name,
			"type":  p.Type,
		},
	})
}
