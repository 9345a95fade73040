package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resumebuilder/internal/database"
)

// Document is a fully assembled resume: the parent row plus every section
// collection in insertion order. Info is nil when the two-step creation left
// the resume without its PersonalInfo.
type Document struct {
	Resume         database.Resume
	Info           *database.PersonalInfo
	Education      []database.Education
	Experience     []database.Experience
	Projects       []database.Project
	Skills         []database.Skill
	Certifications []database.Certification
}

// LoadDocument assembles the complete document for a resume.
func (s *Store) LoadDocument(ctx context.Context, resumeID uint) (*Document, error) {
	r, err := s.Get(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	doc := Document{Resume: *r}

	var info database.PersonalInfo
	err = s.db.WithContext(ctx).Where("resume_id = ?", resumeID).First(&info).Error
	switch {
	case err == nil:
		doc.Info = &info
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("query personal info: %w", err)
	}

	for _, dst := range []any{
		&doc.Education,
		&doc.Experience,
		&doc.Projects,
		&doc.Skills,
		&doc.Certifications,
	} {
		if err := s.db.WithContext(ctx).
			Where("resume_id = ?", resumeID).
			Order("id ASC").
			Find(dst).Error; err != nil {
			return nil, fmt.Errorf("query section rows: %w", err)
		}
	}

	return &doc, nil
}

// Export types mirror the JSON download format: a flat object with
// ISO-8601 timestamps and one nested collection per section.

type ExportPersonalInfo struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Address  string `json:"address"`
	Summary  string `json:"summary"`
}

type ExportEducation struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	StartYear   int     `json:"start_year"`
	EndYear     int     `json:"end_year"`
	CGPA        float64 `json:"cgpa"`
	Description string  `json:"description"`
}

type ExportExperience struct {
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type ExportProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TechStack   string `json:"tech_stack"`
	Link        string `json:"link"`
}

type ExportSkill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type ExportCertification struct {
	Name           string `json:"name"`
	Issuer         string `json:"issuer"`
	IssueDate      string `json:"issue_date"`
	CredentialLink string `json:"credential_link"`
}

type ExportDocument struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Style          string                `json:"style"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
	PersonalInfo   *ExportPersonalInfo   `json:"personal_info,omitempty"`
	Education      []ExportEducation     `json:"education"`
	Experience     []ExportExperience    `json:"experience"`
	Projects       []ExportProject       `json:"projects"`
	Skills         []ExportSkill         `json:"skills"`
	Certifications []ExportCertification `json:"certifications"`
}

// Export flattens the document into its JSON export form.
func (d *Document) Export() ExportDocument {
	out := ExportDocument{
		ID:             d.Resume.ID,
		Title:          d.Resume.Title,
		Style:          d.Resume.Style,
		CreatedAt:      d.Resume.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      d.Resume.UpdatedAt.Format(time.RFC3339),
		Education:      make([]ExportEducation, 0, len(d.Education)),
		Experience:     make([]ExportExperience, 0, len(d.Experience)),
		Projects:       make([]ExportProject, 0, len(d.Projects)),
		Skills:         make([]ExportSkill, 0, len(d.Skills)),
		Certifications: make([]ExportCertification, 0, len(d.Certifications)),
	}

	if d.Info != nil {
		out.PersonalInfo = &ExportPersonalInfo{
			FullName: d.Info.FullName,
			Phone:    d.Info.Phone,
			Email:    d.Info.Email,
			LinkedIn: d.Info.LinkedIn,
			GitHub:   d.Info.GitHub,
			Address:  d.Info.Address,
			Summary:  d.Info.Summary,
		}
	}

	for _, e := range d.Education {
		out.Education = append(out.Education, ExportEducation{
			Degree:      e.Degree,
			Institution: e.Institution,
			StartYear:   e.StartYear,
			EndYear:     e.EndYear,
			CGPA:        e.CGPA,
			Description: e.Description,
		})
	}
	for _, e := range d.Experience {
		out.Experience = append(out.Experience, ExportExperience{
			JobTitle:    e.JobTitle,
			Company:     e.Company,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}
	for _, p := range d.Projects {
		out.Projects = append(out.Projects, ExportProject{
			Title:       p.Title,
			Description: p.Description,
			TechStack:   p.TechStack,
			Link:        p.Link,
		})
	}
	for _, sk := range d.Skills {
		out.Skills = append(out.Skills, ExportSkill{
			Name:  sk.Name,
			Level: sk.Level,
		})
	}
	for _, c := range d.Certifications {
		out.Certifications = append(out.Certifications, ExportCertification{
			Name:           c.Name,
			Issuer:         c.Issuer,
			IssueDate:      c.IssueDate,
			CredentialLink: c.CredentialLink,
		})
	}

	return out
}

// ExportJSON renders the export document as indented JSON.
func (d *Document) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume export: %w", err)
	}
	return data, nil
}
