package database

import (
	"time"

	"gorm.io/gorm"
)

// DefaultProfilePic is the sentinel stored when a resume has no uploaded image.
const DefaultProfilePic = "default.jpg"

// User represents an account in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:64"`
	Email        string `gorm:"uniqueIndex;size:128"`
	PasswordHash string `gorm:"size:255"`

	Resumes   []Resume         `gorm:"constraint:OnDelete:CASCADE"`
	Analytics []ResumeAnalytic `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume is the primary document a user builds. It owns one PersonalInfo
// and any number of section rows.
type Resume struct {
	gorm.Model
	UserID        uint   `gorm:"index"`
	Title         string `gorm:"size:255"`
	Style         string `gorm:"size:32;default:modern"`
	IsActive      bool   `gorm:"default:true"`
	DownloadCount int    `gorm:"default:0"`

	PersonalInfo   *PersonalInfo    `gorm:"constraint:OnDelete:CASCADE"`
	Education      []Education      `gorm:"constraint:OnDelete:CASCADE"`
	Experience     []Experience     `gorm:"constraint:OnDelete:CASCADE"`
	Projects       []Project        `gorm:"constraint:OnDelete:CASCADE"`
	Skills         []Skill          `gorm:"constraint:OnDelete:CASCADE"`
	Certifications []Certification  `gorm:"constraint:OnDelete:CASCADE"`
	Analytics      []ResumeAnalytic `gorm:"constraint:OnDelete:CASCADE"`
}

// PersonalInfo is a singleton per resume, enforced by the unique index on
// ResumeID. ProfilePic holds either an upload-store key or DefaultProfilePic.
type PersonalInfo struct {
	gorm.Model
	ResumeID   uint   `gorm:"uniqueIndex"`
	ProfilePic string `gorm:"size:255;default:default.jpg"`
	FullName   string `gorm:"size:64"`
	Phone      string `gorm:"size:32"`
	Email      string `gorm:"size:128"`
	LinkedIn   string `gorm:"size:128"`
	GitHub     string `gorm:"size:128"`
	Address    string `gorm:"size:255"`
	Summary    string `gorm:"size:512"`
}

type Education struct {
	gorm.Model
	ResumeID    uint `gorm:"index"`
	Degree      string
	Institution string
	StartYear   int
	EndYear     int
	CGPA        float64
	Description string
}

type Experience struct {
	gorm.Model
	ResumeID    uint `gorm:"index"`
	JobTitle    string
	Company     string
	StartDate   string
	EndDate     string
	Description string
}

type Project struct {
	gorm.Model
	ResumeID    uint `gorm:"index"`
	Title       string
	Description string
	TechStack   string
	Link        string
}

type Skill struct {
	gorm.Model
	ResumeID uint   `gorm:"index"`
	Name     string `gorm:"size:64"`
	Level    string `gorm:"size:32"`
}

type Certification struct {
	gorm.Model
	ResumeID       uint `gorm:"index"`
	Name           string
	Issuer         string
	IssueDate      string
	CredentialLink string
}

// ResumeAnalytic is an append-only usage event. Rows are never updated and
// only leave via cascade from User or Resume.
type ResumeAnalytic struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"index"`
	ResumeID  uint   `gorm:"index"`
	Action    string `gorm:"size:50"`
	Details   string `gorm:"size:512"`
	CreatedAt time.Time
}

// EmailNotification records one delivery attempt, never updated afterwards.
type EmailNotification struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"index"`
	Subject   string `gorm:"size:255"`
	Body      string `gorm:"type:text"`
	IsSent    bool
	CreatedAt time.Time
}

// AllModels lists every entity for automigration, parents before children.
func AllModels() []any {
	return []any{
		&User{},
		&Resume{},
		&PersonalInfo{},
		&Education{},
		&Experience{},
		&Project{},
		&Skill{},
		&Certification{},
		&ResumeAnalytic{},
		&EmailNotification{},
	}
}
