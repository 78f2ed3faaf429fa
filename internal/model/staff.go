package model

import "time"

// Staff status values.
const (
	StaffActive   = "ACTIVE"
	StaffInactive = "INACTIVE"
)

// AdminAccessLevel is the minimum access level required to perform
// administrative mutations (event creation, staff creation, uploads,
// dispatch).
const AdminAccessLevel = 5

// StaffMember represents an administrative identity as stored in the
// `staff_members` table.  Both the email address and the API key are
// unique.  The password hash is optional; it is only set for staff who
// use the portal login instead of presenting their API key directly.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique email address.
//  APIKey       – unique credential presented on admin requests.
//  PasswordHash – bcrypt hash for portal login (nullable).
//  Role         – job title (e.g. "Events Manager").
//  Department   – organisational unit (optional).
//  AccessLevel  – numeric privilege level; >= AdminAccessLevel grants admin.
//  Status       – ACTIVE or INACTIVE; inactive keys are rejected.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type StaffMember struct {
	ID           uint64    `json:"id"`         // staff_members.id
	Name         string    `json:"name"`       // staff_members.name
	Email        string    `json:"email"`      // staff_members.email
	APIKey       string    `json:"api_key"`    // staff_members.api_key
	PasswordHash *string   `json:"-"`          // staff_members.password_hash (nullable, never serialized)
	Role         string    `json:"role"`       // staff_members.role
	Department   string    `json:"department"` // staff_members.department
	AccessLevel  int       `json:"access_level"` // staff_members.access_level
	Status       string    `json:"status"`     // staff_members.status
	CreatedAt    time.Time `json:"created_at"` // staff_members.created_at
	UpdatedAt    time.Time `json:"updated_at"` // staff_members.updated_at
}

// IsAdmin reports whether the staff member may perform administrative
// mutations.
func (s *StaffMember) IsAdmin() bool {
	return s.Status == StaffActive && s.AccessLevel >= AdminAccessLevel
}
