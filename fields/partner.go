// Package fields holds the shared domain structs used across medico
// services: partner records, member accounts, visit entries and the
// process-wide service config.
package fields

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost used for partner account passwords.
const PasswordCost = 12

// Partner statuses. A partner is discoverable by members only when Active.
const (
	StatusPending  = "Pending"
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusRejected = "Rejected"
)

// Partner is a facility or practitioner offering discounted services to
// members. Self-registration creates it as Pending; admin approval flips it
// to Active.
type Partner struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type,omitempty"`
	ClinicName      string          `json:"clinicName,omitempty"`
	Specialization  string          `json:"specialization,omitempty"`
	Address         string          `json:"address,omitempty"`
	ContactEmail    string          `json:"contactEmail,omitempty"`
	ContactPhone    string          `json:"contactPhone,omitempty"`
	Email           string          `json:"email"`
	Password        string          `json:"-"`
	District        string          `json:"district,omitempty"`
	State           string          `json:"state,omitempty"`
	Pincode         string          `json:"pincode,omitempty"`
	Responsible     *Responsible    `json:"responsible,omitempty"`
	Council         *Council        `json:"council,omitempty"`
	Timings         string          `json:"timings,omitempty"`
	TimeFrom        string          `json:"timeFrom,omitempty"`
	TimeTo          string          `json:"timeTo,omitempty"`
	DayFrom         string          `json:"dayFrom,omitempty"`
	DayTo           string          `json:"dayTo,omitempty"`
	DiscountAmount  string          `json:"discountAmount,omitempty"`
	DiscountItems   StringList      `json:"discountItems"`
	PassportPhoto   string          `json:"passportPhoto,omitempty"`
	CertificateFile string          `json:"certificateFile,omitempty"`
	ClinicPhotos    StringList      `json:"clinicPhotos"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	MembersServed   int64           `json:"membersServed"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Responsible is the person accountable for the facility. Optional
// sub-document, stored as a JSON column.
type Responsible struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
	Sex  string `json:"sex,omitempty"`
	DOB  string `json:"dob,omitempty"`
}

// Council is the medical council credential of the responsible person.
type Council struct {
	Name   string `json:"name,omitempty"`
	Number string `json:"number,omitempty"`
}

// HashPassword replaces the plaintext password with its bcrypt hash. The
// raw password is never persisted.
func (p *Partner) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), PasswordCost)
	if err != nil {
		return err
	}
	p.Password = string(hashed)
	return nil
}

// ComparePassword checks a candidate password against the stored hash.
func (p *Partner) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(candidate)) == nil
}

// StringList is a []string stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func (r *Responsible) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return valueJSON(r)
}

func (r *Responsible) Scan(src any) error {
	return scanJSON(src, r)
}

func (c *Council) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return valueJSON(c)
}

func (c *Council) Scan(src any) error {
	return scanJSON(src, c)
}

func valueJSON(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanJSON(src, dst any) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, dst)
	case string:
		if data == "" {
			return nil
		}
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
