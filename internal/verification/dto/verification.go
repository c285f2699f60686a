package dto

// VerifyInstitutionEmailRequest is the data payload of the callable
type VerifyInstitutionEmailRequest struct {
	Email string `json:"email"`
	// ID token of a second session signed in with the institution address
	SecondaryIDToken string `json:"emailLinkIdToken"`
}

type VerifyInstitutionEmailResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}
