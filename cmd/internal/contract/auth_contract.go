package contract

type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email,max=254"`
	Password       string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
	FullName       string `json:"full_name" validate:"required,min=2,max=120"`
	Degree         string `json:"degree" validate:"required,min=2,max=120"`
	GraduationYear string `json:"graduation_year" validate:"required,gradyear"`
	ContactNumber  string `json:"contact_number" validate:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=8"`
}

type ResendConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse tells the client where to land after signing in.
// The tokens themselves travel as HttpOnly cookies.
type LoginResponse struct {
	Redirect  string           `json:"redirect"`
	ExpiresIn int64            `json:"expires_in"`
	Profile   *ProfileResponse `json:"profile"`
}

type RefreshResponse struct {
	ExpiresIn int64 `json:"expires_in"`
}

type SessionResponse struct {
	State      string `json:"state"`
	IdentityID string `json:"identity_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Verified   bool   `json:"verified"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}
