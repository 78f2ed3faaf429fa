package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/utils"
)

// StaffRepo provides persistence for staff members and implements the
// admin authorization lookup used by the middleware.  Emails and API
// keys are unique; duplicates surface as ErrEmailExists / ErrAPIKeyExists.
type StaffRepo struct{ DB *sql.DB }

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

const staffColumns = `id, name, email, api_key, password_hash, role, department,
		access_level, status, created_at, updated_at`

func scanStaff(row interface{ Scan(...any) error }) (*model.StaffMember, error) {
	var (
		s    model.StaffMember
		hash sql.NullString
		dept sql.NullString
	)
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.APIKey, &hash, &s.Role, &dept,
		&s.AccessLevel, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if hash.Valid {
		v := hash.String
		s.PasswordHash = &v
	}
	s.Department = dept.String
	return &s, nil
}

// Create inserts a staff member and returns the stored row.  The email is
// normalised to lower case.  When password is non-empty it is hashed with
// bcrypt so the member can use the portal login.  Uniqueness violations
// are mapped to the matching sentinel.
func (r *StaffRepo) Create(ctx context.Context, s *model.StaffMember, password string, cost int) (*model.StaffMember, error) {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))

	var hash any
	if password != "" {
		h, err := utils.HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO staff_members (name, email, api_key, password_hash, role, department, access_level, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Email, s.APIKey, hash, s.Role, nullable(s.Department), s.AccessLevel, s.Status)
	if err != nil {
		// 1062 is MySQL's duplicate-entry error; the message names the
		// violated unique index.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "api_key") {
				return nil, ErrAPIKeyExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a staff member by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (*model.StaffMember, error) {
	s, err := scanStaff(r.DB.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_members WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	return s, err
}

// GetByEmail fetches a staff member by normalised email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*model.StaffMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s, err := scanStaff(r.DB.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_members WHERE email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	return s, err
}

// GetByAPIKey fetches a staff member by API key.
func (r *StaffRepo) GetByAPIKey(ctx context.Context, key string) (*model.StaffMember, error) {
	s, err := scanStaff(r.DB.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_members WHERE api_key = ? LIMIT 1`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	return s, err
}

// IsAuthorizedAdmin reports whether the credential belongs to an active
// staff member with administrative access.  Unknown credentials are not
// an error; they simply authorize nothing.
func (r *StaffRepo) IsAuthorizedAdmin(ctx context.Context, credential string) (bool, error) {
	if credential == "" {
		return false, nil
	}
	s, err := r.GetByAPIKey(ctx, credential)
	if errors.Is(err, ErrStaffNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.IsAdmin(), nil
}
