package store

import (
	"context"
	"strings"
	"time"

	"github.com/medico-app/medico/fields"
)

// PartnerFilter narrows the partner listings. Query is a case-insensitive
// substring match over name, clinic name, specialization and address; State
// and District match exactly, case-insensitive.
type PartnerFilter struct {
	Status   string
	Query    string
	Type     string
	State    string
	District string
}

func (s *Store) CreatePartner(ctx context.Context, p *fields.Partner) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = fields.StatusPending
	}
	stmt := s.DB.Rebind(`INSERT INTO partners(
		id, name, type, clinic_name, specialization, address, contact_email, contact_phone,
		email, password, district, state, pincode, responsible, council, timings,
		time_from, time_to, day_from, day_to, discount_amount, discount_items,
		passport_photo, certificate_file, clinic_photos, rejection_reason,
		members_served, status, created_at, updated_at
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = db.ExecContext(ctx, stmt,
		p.ID,
		p.Name,
		p.Type,
		p.ClinicName,
		p.Specialization,
		p.Address,
		strings.ToLower(p.ContactEmail),
		p.ContactPhone,
		strings.ToLower(p.Email),
		p.Password,
		p.District,
		p.State,
		p.Pincode,
		p.Responsible,
		p.Council,
		p.Timings,
		p.TimeFrom,
		p.TimeTo,
		p.DayFrom,
		p.DayTo,
		p.DiscountAmount,
		p.DiscountItems,
		p.PassportPhoto,
		p.CertificateFile,
		p.ClinicPhotos,
		p.RejectionReason,
		p.MembersServed,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (s *Store) GetPartner(ctx context.Context, id string) (*fields.Partner, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM partners WHERE id = ?")
	var p fields.Partner
	if err := db.GetContext(ctx, &p, stmt, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActivePartnerByEmail resolves login credentials. Pending and rejected
// accounts are invisible here on purpose: only approved partners may log in.
func (s *Store) GetActivePartnerByEmail(ctx context.Context, email string) (*fields.Partner, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM partners WHERE email = ? AND status = ?")
	var p fields.Partner
	if err := db.GetContext(ctx, &p, stmt, strings.ToLower(email), fields.StatusActive); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) PartnerEmailExists(ctx context.Context, email string) (bool, error) {
	db, err := s.ensureDB()
	if err != nil {
		return false, err
	}
	stmt := s.DB.Rebind("SELECT COUNT(1) FROM partners WHERE email = ?")
	var count int64
	if err := db.GetContext(ctx, &count, stmt, strings.ToLower(email)); err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetPartnerStatus updates the lifecycle status. Returns IsNotFound-able
// error when the id is unknown. Re-setting the same status is a no-op set.
func (s *Store) SetPartnerStatus(ctx context.Context, id, status string) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	stmt := s.DB.Rebind("UPDATE partners SET status = ?, updated_at = ? WHERE id = ?")
	res, err := db.ExecContext(ctx, stmt, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNoRows()
	}
	return nil
}

func (s *Store) DeletePartner(ctx context.Context, id string) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	stmt := s.DB.Rebind("DELETE FROM partners WHERE id = ?")
	res, err := db.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNoRows()
	}
	return nil
}

// ListPartners returns a newest-first page of partners matching the filter
// along with the total match count.
func (s *Store) ListPartners(ctx context.Context, filter PartnerFilter, page, limit int) ([]fields.Partner, int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, 0, err
	}

	where, args := buildPartnerWhere(filter)

	var total int64
	countStmt := s.DB.Rebind("SELECT COUNT(1) FROM partners" + where)
	if err := db.GetContext(ctx, &total, countStmt, args...); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	listStmt := s.DB.Rebind("SELECT * FROM partners" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?")
	listArgs := append(args, limit, (page-1)*limit)

	partners := []fields.Partner{}
	if err := db.SelectContext(ctx, &partners, listStmt, listArgs...); err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

// ListApplications returns the newest pending applications, capped at limit.
func (s *Store) ListApplications(ctx context.Context, limit int) ([]fields.Partner, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 200
	}
	stmt := s.DB.Rebind("SELECT * FROM partners WHERE status = ? ORDER BY created_at DESC LIMIT ?")
	apps := []fields.Partner{}
	if err := db.SelectContext(ctx, &apps, stmt, fields.StatusPending, limit); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Store) CountPartnersByStatus(ctx context.Context, status string) (int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return 0, err
	}
	stmt := s.DB.Rebind("SELECT COUNT(1) FROM partners WHERE status = ?")
	var count int64
	if err := db.GetContext(ctx, &count, stmt, status); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) RecentPartners(ctx context.Context, status string, limit int) ([]fields.Partner, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM partners WHERE status = ? ORDER BY created_at DESC LIMIT ?")
	partners := []fields.Partner{}
	if err := db.SelectContext(ctx, &partners, stmt, status, limit); err != nil {
		return nil, err
	}
	return partners, nil
}

func buildPartnerWhere(filter PartnerFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		clauses = append(clauses, "(LOWER(name) LIKE ? OR LOWER(clinic_name) LIKE ? OR LOWER(specialization) LIKE ? OR LOWER(address) LIKE ?)")
		args = append(args, like, like, like, like)
	}
	if filter.Type != "" && filter.Type != "all" {
		clauses = append(clauses, "type = ?")
		args = append(args, filter.Type)
	}
	if st := strings.TrimSpace(filter.State); st != "" {
		clauses = append(clauses, "LOWER(state) = ?")
		args = append(args, strings.ToLower(st))
	}
	if d := strings.TrimSpace(filter.District); d != "" {
		clauses = append(clauses, "LOWER(district) = ?")
		args = append(args, strings.ToLower(d))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
