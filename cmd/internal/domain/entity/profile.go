package entity

// Profile is the application-level record of an alumnus.
// Its ID is the identity provider "sub", so there is exactly one profile per identity.
type Profile struct {
	ID             string `gorm:"primaryKey;autoIncrement:false"`
	Email          string `gorm:"not null;uniqueIndex"`
	FullName       string `gorm:"not null;index"`
	Degree         string `gorm:"not null;default:''"`
	GraduationYear string `gorm:"not null;default:''"`
	Role           Role   `gorm:"not null;type:varchar(16);default:member"`
	IsVerified     bool   `gorm:"not null;default:false;index"`
	ContactNumber  string `gorm:"not null;default:''"`
	JobTitle       string `gorm:"not null;default:''"`
	Company        string `gorm:"not null;default:''"`
	AvatarKey      string `gorm:"not null;default:''"`
	CreatedAt      int64  `gorm:"not null"`
	UpdatedAt      int64  `gorm:"not null;autoUpdateTime:false"`
}

// ProfileRole is the narrow projection the session resolver reads.
type ProfileRole struct {
	Role       Role
	IsVerified bool
}

// DegreeCount is one row of the degree distribution shown on the admin dashboard.
type DegreeCount struct {
	Degree string `json:"degree"`
	Count  int64  `json:"count"`
}
