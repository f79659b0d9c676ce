package store

import (
	"context"
	"strings"
	"time"

	"github.com/medico-app/medico/fields"
)

func (s *Store) CreateMember(ctx context.Context, m *fields.Member) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Status == "" {
		m.Status = "Active"
	}
	stmt := s.DB.Rebind(`INSERT INTO members(
		id, membership_id, name, email, phone, plan, family_members, family_details,
		valid_until, status, created_at, updated_at
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = db.ExecContext(ctx, stmt,
		m.ID,
		m.MembershipID,
		m.Name,
		strings.ToLower(m.Email),
		m.Phone,
		m.Plan,
		m.FamilyMembers,
		m.FamilyDetails,
		m.ValidUntil,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (s *Store) GetMember(ctx context.Context, id string) (*fields.Member, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM members WHERE id = ?")
	var m fields.Member
	if err := db.GetContext(ctx, &m, stmt, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMemberByMembershipID resolves the public membership identifier members
// present at partner facilities.
func (s *Store) GetMemberByMembershipID(ctx context.Context, membershipID string) (*fields.Member, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM members WHERE membership_id = ?")
	var m fields.Member
	if err := db.GetContext(ctx, &m, stmt, membershipID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.GetContext(ctx, &count, "SELECT COUNT(1) FROM members"); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) RecentMembers(ctx context.Context, limit int) ([]fields.Member, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	stmt := s.DB.Rebind("SELECT * FROM members ORDER BY created_at DESC LIMIT ?")
	members := []fields.Member{}
	if err := db.SelectContext(ctx, &members, stmt, limit); err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembers returns a newest-first page of members, optionally filtered by
// a case-insensitive search over name, email and membership id.
func (s *Store) ListMembers(ctx context.Context, search string, page, limit int) ([]fields.Member, int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, 0, err
	}

	where := ""
	args := []any{}
	if q := strings.TrimSpace(search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = " WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(membership_id) LIKE ?"
		args = append(args, like, like, like)
	}

	var total int64
	countStmt := s.DB.Rebind("SELECT COUNT(1) FROM members" + where)
	if err := db.GetContext(ctx, &total, countStmt, args...); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	listStmt := s.DB.Rebind("SELECT * FROM members" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?")
	listArgs := append(args, limit, (page-1)*limit)

	members := []fields.Member{}
	if err := db.SelectContext(ctx, &members, listStmt, listArgs...); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	stmt := s.DB.Rebind("DELETE FROM members WHERE id = ?")
	res, err := db.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNoRows()
	}
	return nil
}
