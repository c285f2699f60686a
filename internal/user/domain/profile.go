package domain

import "time"

const (
	UsersCollection = "users"

	FieldFCMToken              = "fcmToken"
	FieldInstitutionEmail      = "byuiEmail"
	FieldInstitutionVerified   = "byuiEmailVerified"
	FieldInstitutionVerifiedAt = "byuiEmailVerifiedAt"
	ClaimInstitutionVerified   = "byuiVerified"
)

// Profile is the users/{uid} document
type Profile struct {
	ID                    string     `json:"id"`
	FCMToken              string     `json:"-"` // device bound, may be stale
	InstitutionEmail      string     `json:"byui_email,omitempty"`
	InstitutionVerified   bool       `json:"byui_email_verified"`
	InstitutionVerifiedAt *time.Time `json:"byui_email_verified_at,omitempty"`
}
