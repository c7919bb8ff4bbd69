package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

// User maps to the users table. Doctors are users with the doctor role.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Contact      string    `db:"contact" json:"contact"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Speciality   string    `db:"speciality" json:"speciality,omitempty"`
	Availability string    `db:"availability" json:"availability,omitempty"`
	AvatarURL    string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	IsBlocked    bool      `db:"is_blocked" json:"isBlocked"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsDoctor() bool { return u.Role == auth.RoleDoctor }

// selfServiceRoles may be chosen at public registration.
var selfServiceRoles = map[string]bool{
	auth.RolePatient:    true,
	auth.RoleDoctor:     true,
	auth.RolePharmacist: true,
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role        string
	ExcludeRole string
	// Search matches name or contact, case-insensitively.
	Search string
}

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	Contact    string `json:"contact" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role"`
	Speciality string `json:"speciality"`
	AvatarURL  string `json:"avatarUrl"`
}

// LoginInput is the body of POST /login. Fields are checked by the service
// so the missing-field message stays specific.
type LoginInput struct {
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

// Session is a signed-in user and their token.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// JoinNotice is returned after a doctor tells a patient they joined a room.
type JoinNotice struct {
	PatientName      string    `json:"patientName"`
	PatientEmail     string    `json:"patientEmail"`
	DoctorName       string    `json:"doctorName"`
	RoomID           string    `json:"roomId"`
	NotificationTime time.Time `json:"notificationTime"`
}

var (
	ErrUserNotFound   = apperr.NotFound("User not found")
	ErrContactTaken   = apperr.Conflict("An account with this contact already exists")
	ErrAdminExists    = apperr.Conflict("An admin account already exists")
	ErrBadCredentials = apperr.Unauthorized("Invalid credentials")
)
