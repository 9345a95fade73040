package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"resumebuilder/internal/database"
)

// ErrNotFound is returned when a referenced resume does not exist.
var ErrNotFound = errors.New("resume not found")

// Store owns all resume persistence. Every multi-row mutation runs inside
// one transaction: on any failure the prior state remains intact.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a GORM database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a new resume for the user. The matching PersonalInfo is
// created afterwards in a separate step, so readers must tolerate a resume
// without one.
func (s *Store) Create(ctx context.Context, userID uint, title, style string) (*database.Resume, error) {
	r := database.Resume{
		UserID:   userID,
		Title:    title,
		Style:    style,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	return &r, nil
}

// CreatePersonalInfo attaches the singleton PersonalInfo row to a resume.
func (s *Store) CreatePersonalInfo(ctx context.Context, info *database.PersonalInfo) error {
	if info.ProfilePic == "" {
		info.ProfilePic = database.DefaultProfilePic
	}
	if err := s.db.WithContext(ctx).Create(info).Error; err != nil {
		return fmt.Errorf("create personal info: %w", err)
	}
	return nil
}

// Get returns the resume with the given id.
func (s *Store) Get(ctx context.Context, resumeID uint) (*database.Resume, error) {
	var r database.Resume
	if err := s.db.WithContext(ctx).First(&r, resumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query resume %d: %w", resumeID, err)
	}
	return &r, nil
}

// ListByUser returns the user's resumes, newest first.
func (s *Store) ListByUser(ctx context.Context, userID uint) ([]database.Resume, error) {
	var resumes []database.Resume
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// ApplyEdit applies a full edit snapshot: PersonalInfo is overwritten in
// place, and each section collection is replaced wholesale — delete all
// existing rows, insert the newly materialized ones in submission order.
// The whole edit commits or none of it does.
func (s *Store) ApplyEdit(ctx context.Context, resumeID uint, snap EditSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var info database.PersonalInfo
		err := tx.Where("resume_id = ?", resumeID).First(&info).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Two-step creation can leave a resume without its
			// PersonalInfo; materialize it now instead of failing.
			info = database.PersonalInfo{ResumeID: resumeID}
		case err != nil:
			return fmt.Errorf("query personal info: %w", err)
		}
		snap.PersonalInfo.apply(&info)
		if err := tx.Save(&info).Error; err != nil {
			return fmt.Errorf("save personal info: %w", err)
		}

		if err := replaceSection(tx, resumeID, snap.Education.rows(resumeID)); err != nil {
			return err
		}
		if err := replaceSection(tx, resumeID, snap.Experience.rows(resumeID)); err != nil {
			return err
		}
		if err := replaceSection(tx, resumeID, snap.Projects.rows(resumeID)); err != nil {
			return err
		}
		if err := replaceSection(tx, resumeID, snap.Skills.rows(resumeID)); err != nil {
			return err
		}
		if err := replaceSection(tx, resumeID, snap.Certifications.rows(resumeID)); err != nil {
			return err
		}
		return nil
	})
}

// replaceSection deletes every existing row of one section type for the
// resume, then inserts the new batch. Deletes are unscoped so no stale row
// survives, soft-deleted or otherwise. An empty batch is a valid replace.
func replaceSection[T any](tx *gorm.DB, resumeID uint, rows []T) error {
	var zero T
	if err := tx.Unscoped().Where("resume_id = ?", resumeID).Delete(&zero).Error; err != nil {
		return fmt.Errorf("delete section rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert section rows: %w", err)
	}
	return nil
}

// Delete removes a resume and everything it owns in one transaction:
// PersonalInfo, all section rows, and its analytics events.
func (s *Store) Delete(ctx context.Context, resumeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&database.PersonalInfo{},
			&database.Education{},
			&database.Experience{},
			&database.Project{},
			&database.Skill{},
			&database.Certification{},
			&database.ResumeAnalytic{},
		} {
			if err := tx.Unscoped().Where("resume_id = ?", resumeID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete resume children: %w", err)
			}
		}
		if err := tx.Unscoped().Delete(&database.Resume{}, resumeID).Error; err != nil {
			return fmt.Errorf("delete resume: %w", err)
		}
		return nil
	})
}

// IncrementDownloadCount bumps the monotonic counter by exactly one. Called
// only after a verified successful download.
func (s *Store) IncrementDownloadCount(ctx context.Context, resumeID uint) error {
	if err := s.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("id = ?", resumeID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}
	return nil
}

// Search scans the user's resumes for a case-insensitive substring match on
// the title or the personal-info full name. Deliberately a linear scan.
func (s *Store) Search(ctx context.Context, userID uint, query string) ([]database.Resume, error) {
	resumes, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	results := make([]database.Resume, 0, len(resumes))
	for _, r := range resumes {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			results = append(results, r)
			continue
		}
		var info database.PersonalInfo
		err := s.db.WithContext(ctx).Where("resume_id = ?", r.ID).First(&info).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("query personal info: %w", err)
		}
		if strings.Contains(strings.ToLower(info.FullName), needle) {
			results = append(results, r)
		}
	}
	return results, nil
}

// Statistics describes how complete a resume is.
type Statistics struct {
	PersonalInfo         bool    `json:"personal_info"`
	EducationCount       int64   `json:"education_count"`
	ExperienceCount      int64   `json:"experience_count"`
	ProjectCount         int64   `json:"project_count"`
	SkillCount           int64   `json:"skill_count"`
	CertificationCount   int64   `json:"certification_count"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Statistics computes per-section row counts and a completion percentage
// over the six section groups.
func (s *Store) Statistics(ctx context.Context, resumeID uint) (Statistics, error) {
	var stats Statistics

	var info database.PersonalInfo
	err := s.db.WithContext(ctx).Where("resume_id = ?", resumeID).First(&info).Error
	switch {
	case err == nil:
		stats.PersonalInfo = true
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return stats, fmt.Errorf("query personal info: %w", err)
	}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&database.Education{}, &stats.EducationCount},
		{&database.Experience{}, &stats.ExperienceCount},
		{&database.Project{}, &stats.ProjectCount},
		{&database.Skill{}, &stats.SkillCount},
		{&database.Certification{}, &stats.CertificationCount},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).
			Model(c.model).
			Where("resume_id = ?", resumeID).
			Count(c.dst).Error; err != nil {
			return stats, fmt.Errorf("count section rows: %w", err)
		}
	}

	completed := 0
	for _, present := range []bool{
		stats.PersonalInfo,
		stats.EducationCount > 0,
		stats.ExperienceCount > 0,
		stats.ProjectCount > 0,
		stats.SkillCount > 0,
		stats.CertificationCount > 0,
	} {
		if present {
			completed++
		}
	}
	stats.CompletionPercentage = float64(completed) / 6 * 100

	return stats, nil
}
