package resume

import (
	"strconv"
	"strings"

	"resumebuilder/internal/database"
)

// DefaultSkillLevel is used when a skill row omits its level.
const DefaultSkillLevel = "intermediate"

// EditSnapshot is the full editable state of a resume as submitted by one
// edit request: the personal-info fields plus one set of parallel,
// positionally-aligned field lists per section type. The client may submit
// fewer repeated values for an optional sub-field than for the section's
// primary field, so every secondary read is range-guarded.
type EditSnapshot struct {
	PersonalInfo   PersonalInfoInput
	Education      EducationInput
	Experience     ExperienceInput
	Projects       ProjectInput
	Skills         SkillInput
	Certifications CertificationInput
}

// PersonalInfoInput overwrites every PersonalInfo field unconditionally.
// ProfilePic is only set once a new upload has actually been stored; nil
// leaves the previous reference untouched.
type PersonalInfoInput struct {
	FullName   string
	Email      string
	Phone      string
	LinkedIn   string
	GitHub     string
	Address    string
	Summary    string
	ProfilePic *string
}

func (in PersonalInfoInput) apply(info *database.PersonalInfo) {
	info.FullName = in.FullName
	info.Email = in.Email
	info.Phone = in.Phone
	info.LinkedIn = in.LinkedIn
	info.GitHub = in.GitHub
	info.Address = in.Address
	info.Summary = in.Summary
	if in.ProfilePic != nil {
		info.ProfilePic = *in.ProfilePic
	}
	if info.ProfilePic == "" {
		info.ProfilePic = database.DefaultProfilePic
	}
}

type EducationInput struct {
	Degrees      []string
	Institutions []string
	StartYears   []string
	EndYears     []string
	Descriptions []string
}

// rows materializes one Education row per non-empty degree, reading the
// secondary fields positionally.
func (in EducationInput) rows(resumeID uint) []database.Education {
	out := make([]database.Education, 0, len(in.Degrees))
	for i, degree := range in.Degrees {
		if strings.TrimSpace(degree) == "" {
			continue
		}
		out = append(out, database.Education{
			ResumeID:    resumeID,
			Degree:      degree,
			Institution: valueAt(in.Institutions, i),
			StartYear:   yearAt(in.StartYears, i),
			EndYear:     yearAt(in.EndYears, i),
			Description: valueAt(in.Descriptions, i),
		})
	}
	return out
}

type ExperienceInput struct {
	JobTitles    []string
	Companies    []string
	StartDates   []string
	EndDates     []string
	Descriptions []string
}

func (in ExperienceInput) rows(resumeID uint) []database.Experience {
	out := make([]database.Experience, 0, len(in.JobTitles))
	for i, title := range in.JobTitles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		out = append(out, database.Experience{
			ResumeID:    resumeID,
			JobTitle:    title,
			Company:     valueAt(in.Companies, i),
			StartDate:   valueAt(in.StartDates, i),
			EndDate:     valueAt(in.EndDates, i),
			Description: valueAt(in.Descriptions, i),
		})
	}
	return out
}

type ProjectInput struct {
	Titles       []string
	Descriptions []string
	TechStacks   []string
	Links        []string
}

func (in ProjectInput) rows(resumeID uint) []database.Project {
	out := make([]database.Project, 0, len(in.Titles))
	for i, title := range in.Titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		out = append(out, database.Project{
			ResumeID:    resumeID,
			Title:       title,
			Description: valueAt(in.Descriptions, i),
			TechStack:   valueAt(in.TechStacks, i),
			Link:        valueAt(in.Links, i),
		})
	}
	return out
}

type SkillInput struct {
	Names  []string
	Levels []string
}

func (in SkillInput) rows(resumeID uint) []database.Skill {
	out := make([]database.Skill, 0, len(in.Names))
	for i, name := range in.Names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		level := valueAt(in.Levels, i)
		if level == "" {
			level = DefaultSkillLevel
		}
		out = append(out, database.Skill{
			ResumeID: resumeID,
			Name:     name,
			Level:    level,
		})
	}
	return out
}

type CertificationInput struct {
	Names           []string
	Issuers         []string
	IssueDates      []string
	CredentialLinks []string
}

func (in CertificationInput) rows(resumeID uint) []database.Certification {
	out := make([]database.Certification, 0, len(in.Names))
	for i, name := range in.Names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, database.Certification{
			ResumeID:       resumeID,
			Name:           name,
			Issuer:         valueAt(in.Issuers, i),
			IssueDate:      valueAt(in.IssueDates, i),
			CredentialLink: valueAt(in.CredentialLinks, i),
		})
	}
	return out
}

// valueAt reads a secondary field positionally, returning an empty string
// when this particular list is shorter than the primary one.
func valueAt(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

// yearAt parses a positional year value, 0 when absent or unparseable.
func yearAt(list []string, i int) int {
	year, err := strconv.Atoi(strings.TrimSpace(valueAt(list, i)))
	if err != nil {
		return 0
	}
	return year
}
