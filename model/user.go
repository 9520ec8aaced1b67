package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Identity is a row in auth_identities: the credential record managed by the
// auth subsystem, separate from the profile row keyed to it.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// User is the profile row for a principal.
type User struct {
	ID                    string             `json:"id"`
	Email                 string             `json:"email"`
	FullName              string             `json:"full_name"`
	UniversityID          string             `json:"university_id"`
	Phone                 *string            `json:"phone"`
	Address               *string            `json:"address"`
	CampusBuilding        *string            `json:"campus_building"`
	ProfilePictureURL     *string            `json:"profile_picture_url"`
	EmergencyContactName  *string            `json:"emergency_contact_name"`
	EmergencyContactPhone *string            `json:"emergency_contact_phone"`
	Bio                   *string            `json:"bio"`
	Role                  Role               `json:"role"`
	Verified              bool               `json:"verified"`
	IDVerificationStatus  VerificationStatus `json:"id_verification_status"`
	CreatedAt             time.Time          `json:"created_at"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Email                 string `json:"email" validate:"required,email"`
	Password              string `json:"password" validate:"required,min=6"`
	ConfirmPassword       string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName              string `json:"full_name" validate:"required"`
	UniversityID          string `json:"university_id" validate:"required"`
	Phone                 string `json:"phone" validate:"required"`
	Address               string `json:"address" validate:"required"`
	CampusBuilding        string `json:"campus_building" validate:"required"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateReq carries the subset of profile fields a user may edit.
// Nil pointers mean "leave unchanged".
type ProfileUpdateReq struct {
	FullName              *string `json:"full_name"`
	Phone                 *string `json:"phone"`
	Address               *string `json:"address"`
	CampusBuilding        *string `json:"campus_building"`
	ProfilePictureURL     *string `json:"profile_picture_url"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Bio                   *string `json:"bio"`
}
