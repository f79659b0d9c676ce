package store

import (
	"context"
	"time"

	"github.com/medico-app/medico/fields"
)

// MemberVisit is a visit joined with partner display fields, for the
// member-facing history.
type MemberVisit struct {
	fields.Visit
	PartnerName        string              `json:"partnerName"`
	PartnerAddress     string              `json:"partnerAddress"`
	PartnerResponsible *fields.Responsible `json:"partnerResponsible"`
}

// PartnerVisit is a visit joined with member display fields, for the
// partner-facing history.
type PartnerVisit struct {
	fields.Visit
	MemberName   string `json:"memberName"`
	MembershipID string `json:"membershipId"`
	MemberEmail  string `json:"memberEmail"`
	MemberPhone  string `json:"memberPhone"`
}

// RecordVisit appends a visit and increments the partner's members_served
// counter in a single transaction, so the ledger and the derived counter
// cannot drift apart on a crash between the two writes.
func (s *Store) RecordVisit(ctx context.Context, v *fields.Visit) error {
	if _, err := s.ensureDB(); err != nil {
		return err
	}
	v.CreatedAt = time.Now().UTC()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := s.DB.Rebind(`INSERT INTO visits(id, member_id, partner_id, service, discount_applied, saved_amount, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insert, v.ID, v.MemberID, v.PartnerID, v.Service, v.DiscountApplied, v.SavedAmount, v.CreatedAt); err != nil {
		return err
	}

	update := s.DB.Rebind("UPDATE partners SET members_served = members_served + 1, updated_at = ? WHERE id = ?")
	if _, err := tx.ExecContext(ctx, update, v.CreatedAt, v.PartnerID); err != nil {
		return err
	}

	return tx.Commit()
}

// VisitsForMember returns the member's latest visits, newest first, with
// partner display fields resolved.
func (s *Store) VisitsForMember(ctx context.Context, memberID string, limit int) ([]MemberVisit, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 10
	}
	stmt := s.DB.Rebind(`SELECT v.*,
		COALESCE(p.name, '') AS partner_name,
		COALESCE(p.address, '') AS partner_address,
		p.responsible AS partner_responsible
	FROM visits v
	LEFT JOIN partners p ON p.id = v.partner_id
	WHERE v.member_id = ?
	ORDER BY v.created_at DESC
	LIMIT ?`)
	visits := []MemberVisit{}
	if err := db.SelectContext(ctx, &visits, stmt, memberID, limit); err != nil {
		return nil, err
	}
	return visits, nil
}

// VisitsForPartner returns a newest-first page of the partner's visits with
// member display fields resolved, plus the total count.
func (s *Store) VisitsForPartner(ctx context.Context, partnerID string, page, limit int) ([]PartnerVisit, int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countStmt := s.DB.Rebind("SELECT COUNT(1) FROM visits WHERE partner_id = ?")
	if err := db.GetContext(ctx, &total, countStmt, partnerID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	stmt := s.DB.Rebind(`SELECT v.*,
		COALESCE(m.name, '') AS member_name,
		COALESCE(m.membership_id, '') AS membership_id,
		COALESCE(m.email, '') AS member_email,
		COALESCE(m.phone, '') AS member_phone
	FROM visits v
	LEFT JOIN members m ON m.id = v.member_id
	WHERE v.partner_id = ?
	ORDER BY v.created_at DESC
	LIMIT ? OFFSET ?`)
	visits := []PartnerVisit{}
	if err := db.SelectContext(ctx, &visits, stmt, partnerID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// VisitCountSince counts a partner's visits created at or after the cutoff.
func (s *Store) VisitCountSince(ctx context.Context, partnerID string, since time.Time) (int64, error) {
	db, err := s.ensureDB()
	if err != nil {
		return 0, err
	}
	stmt := s.DB.Rebind("SELECT COUNT(1) FROM visits WHERE partner_id = ? AND created_at >= ?")
	var count int64
	if err := db.GetContext(ctx, &count, stmt, partnerID, since.UTC()); err != nil {
		return 0, err
	}
	return count, nil
}
