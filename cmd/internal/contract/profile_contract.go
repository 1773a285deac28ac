package contract

type ProfileResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	FullName       string `json:"full_name"`
	Degree         string `json:"degree"`
	GraduationYear string `json:"graduation_year"`
	Role           string `json:"role,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	ContactNumber  string `json:"contact_number,omitempty"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// UpdateProfileRequest carries the self-service fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=2,max=120"`
	JobTitle      *string `json:"job_title" validate:"omitempty,max=120"`
	Company       *string `json:"company" validate:"omitempty,max=120"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,phone"`
}

func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.FullName == nil && r.JobTitle == nil && r.Company == nil && r.ContactNumber == nil
}

// VerificationResponse is what the public verification page shows for a
// scanned ID card.
type VerificationResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Degree         string `json:"degree"`
	GraduationYear string `json:"graduation_year"`
	IsVerified     bool   `json:"is_verified"`
}

type IDCardResponse struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Degree          string `json:"degree"`
	Batch           string `json:"batch"`
	IsVerified      bool   `json:"is_verified"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	VerificationURL string `json:"verification_url"`
	QRCodeURL       string `json:"qr_code_url,omitempty"`
}

type DirectoryResponse struct {
	Query    string             `json:"query,omitempty"`
	Profiles []*ProfileResponse `json:"profiles"`
}

// MaxAvatarSizeBytes is the largest profile picture accepted.
const MaxAvatarSizeBytes = 5 << 20

var ValidAvatarFileTypes = []string{"png", "jpg", "jpeg", "webp"}
