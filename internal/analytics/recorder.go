package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resumebuilder/internal/database"
)

// Actions recorded against a resume. The event log is append-only.
const (
	ActionView     = "view"
	ActionDownload = "download"
	ActionExport   = "export"
)

// Recorder appends usage events and derives aggregate counts from them.
// Track returns an explicit error; call sites treat recording failures as
// recoverable and log-and-continue, they never fail the user action.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder wraps a GORM database handle.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Track appends one event.
func (r *Recorder) Track(ctx context.Context, userID, resumeID uint, action, details string) error {
	event := database.ResumeAnalytic{
		UserID:   userID,
		ResumeID: resumeID,
		Action:   action,
		Details:  details,
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("record %s event: %w", action, err)
	}
	return nil
}

// ResumeStats are the derived aggregates for one resume.
type ResumeStats struct {
	ResumeID  uint      `json:"resume_id"`
	Title     string    `json:"title"`
	Downloads int64     `json:"downloads"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResumeStats counts download and view events for a resume.
func (r *Recorder) ResumeStats(ctx context.Context, resumeID uint) (*ResumeStats, error) {
	var res database.Resume
	if err := r.db.WithContext(ctx).First(&res, resumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %d not found", resumeID)
		}
		return nil, fmt.Errorf("query resume %d: %w", resumeID, err)
	}

	stats := ResumeStats{
		ResumeID:  res.ID,
		Title:     res.Title,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}

	for action, dst := range map[string]*int64{
		ActionDownload: &stats.Downloads,
		ActionView:     &stats.Views,
	} {
		if err := r.db.WithContext(ctx).
			Model(&database.ResumeAnalytic{}).
			Where("resume_id = ? AND action = ?", resumeID, action).
			Count(dst).Error; err != nil {
			return nil, fmt.Errorf("count %s events: %w", action, err)
		}
	}

	return &stats, nil
}

// Dashboard aggregates stats across all of a user's resumes.
type Dashboard struct {
	Resumes        []ResumeStats `json:"resumes"`
	TotalDownloads int64         `json:"total_downloads"`
	TotalViews     int64         `json:"total_views"`
}

// Dashboard builds the per-user overview.
func (r *Recorder) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	var resumes []database.Resume
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	out := Dashboard{Resumes: make([]ResumeStats, 0, len(resumes))}
	for _, res := range resumes {
		stats, err := r.ResumeStats(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		out.Resumes = append(out.Resumes, *stats)
		out.TotalDownloads += stats.Downloads
		out.TotalViews += stats.Views
	}
	return &out, nil
}
