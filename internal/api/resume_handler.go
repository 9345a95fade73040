package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumebuilder/internal/analytics"
	"resumebuilder/internal/api/middleware"
	"resumebuilder/internal/database"
	"resumebuilder/internal/mailer"
	"resumebuilder/internal/pdf"
	"resumebuilder/internal/render"
	"resumebuilder/internal/resume"
	"resumebuilder/internal/storage"
)

// PDFGenerator is the headless-render collaborator surface; satisfied by
// pdf.Generator and by test stubs.
type PDFGenerator interface {
	RenderFile(htmlPath, pdfPath string) error
}

// ResumeHandler serves all resume-management actions.
type ResumeHandler struct {
	db        *gorm.DB
	store     *resume.Store
	uploads   storage.ObjectStore
	recorder  *analytics.Recorder
	mailer    *mailer.Mailer
	generator PDFGenerator
	tempDir   string
	clamdAddr string
}

// NewResumeHandler constructs the handler.
func NewResumeHandler(
	db *gorm.DB,
	store *resume.Store,
	uploads storage.ObjectStore,
	recorder *analytics.Recorder,
	m *mailer.Mailer,
	generator PDFGenerator,
	tempDir string,
	clamdAddr string,
) *ResumeHandler {
	return &ResumeHandler{
		db:        db,
		store:     store,
		uploads:   uploads,
		recorder:  recorder,
		mailer:    m,
		generator: generator,
		tempDir:   tempDir,
		clamdAddr: clamdAddr,
	}
}

var (
	errInvalidResumeID = errors.New("invalid resume id")
	errNotOwner        = errors.New("resume not owned by user")
)

// getResumeForUser resolves the :id param and enforces ownership.
func (h *ResumeHandler) getResumeForUser(c *gin.Context, userID uint) (*database.Resume, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, errInvalidResumeID
	}
	r, err := h.store.Get(c.Request.Context(), uint(id))
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, errNotOwner
	}
	return r, nil
}

// respondResumeError maps lookup failures onto the user-visible boundary:
// a message and a safe status, never a raw internal error.
func respondResumeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, resume.ErrNotFound):
		NotFound(c, "resume not found")
	case errors.Is(err, errNotOwner):
		Forbidden(c, "you are not authorized to access this resume")
	default:
		Internal(c, "failed to query resume")
	}
}

// CreateResume creates a resume and its PersonalInfo from the submitted
// basic info. The two rows are created in sequence, not one transaction;
// readers tolerate the rare resume left without its PersonalInfo.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	fullName := strings.TrimSpace(c.PostForm("full_name"))
	resumeEmail := strings.TrimSpace(c.PostForm("resume_email"))
	if fullName == "" || resumeEmail == "" {
		BadRequest(c, "full name and resume email are required")
		return
	}

	style := c.DefaultPostForm("template", "modern")
	if !render.KnownStyle(style) {
		BadRequest(c, fmt.Sprintf("unknown resume style %q", style))
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = fullName + "'s Resume"
	}

	profilePic, warning := h.storeProfileImage(c, userID, "")

	r, err := h.store.Create(ctx, userID, title, style)
	if err != nil {
		logger.Error("create resume failed", slog.Any("error", err))
		Internal(c, "failed to create resume")
		return
	}

	info := database.PersonalInfo{
		ResumeID:   r.ID,
		FullName:   fullName,
		Email:      resumeEmail,
		Phone:      c.PostForm("phone"),
		LinkedIn:   c.PostForm("linkedin"),
		GitHub:     c.PostForm("github"),
		Address:    c.PostForm("address"),
		Summary:    c.PostForm("summary"),
		ProfilePic: profilePic,
	}
	if err := h.store.CreatePersonalInfo(ctx, &info); err != nil {
		logger.Error("create personal info failed",
			slog.Uint64("resume_id", uint64(r.ID)),
			slog.Any("error", err),
		)
		Internal(c, "failed to save resume info")
		return
	}

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err == nil {
		if err := h.mailer.SendResumeCreated(ctx, user, r.Title); err != nil {
			logger.Warn("resume created email failed", slog.Any("error", err))
		}
	}

	resp := gin.H{
		"id":    r.ID,
		"title": r.Title,
		"style": r.Style,
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusCreated, resp)
}

// ListResumes lists the user's resumes, newest first.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumes, err := h.store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list resumes failed", slog.Any("error", err))
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]gin.H, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, gin.H{
			"id":             r.ID,
			"title":          r.Title,
			"style":          r.Style,
			"is_active":      r.IsActive,
			"download_count": r.DownloadCount,
			"created_at":     r.CreatedAt,
			"updated_at":     r.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, items)
}

// GetResume returns the assembled document and records a view event.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	doc, err := h.store.LoadDocument(ctx, r.ID)
	if err != nil {
		logger.Error("load document failed", slog.Any("error", err))
		Internal(c, "failed to load resume")
		return
	}

	if err := h.recorder.Track(ctx, userID, r.ID, analytics.ActionView, "Viewed resume: "+r.Title); err != nil {
		logger.Warn("track view failed", slog.Any("error", err))
	}

	c.JSON(http.StatusOK, gin.H{
		"resume":         doc.Export(),
		"is_active":      r.IsActive,
		"download_count": r.DownloadCount,
	})
}

// UpdateResume applies a full edit snapshot: personal info overwritten in
// place, every section replaced wholesale from the submitted parallel field
// lists. A failed image upload downgrades to a warning and keeps the
// previous picture; a failed persistence rolls the whole edit back.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	fullName := strings.TrimSpace(c.PostForm("full_name"))
	resumeEmail := strings.TrimSpace(c.PostForm("resume_email"))
	if fullName == "" || resumeEmail == "" {
		BadRequest(c, "full name and resume email are required")
		return
	}

	snap := snapshotFromForm(c)

	previousPic := ""
	var info database.PersonalInfo
	if err := h.db.WithContext(ctx).Where("resume_id = ?", r.ID).First(&info).Error; err == nil {
		previousPic = info.ProfilePic
	}

	newPic, warning := h.storeProfileImage(c, userID, previousPic)
	if newPic != "" {
		snap.PersonalInfo.ProfilePic = &newPic
	}

	if err := h.store.ApplyEdit(ctx, r.ID, snap); err != nil {
		logger.Error("apply edit failed",
			slog.Uint64("resume_id", uint64(r.ID)),
			slog.Any("error", err),
		)
		Internal(c, "failed to update resume")
		return
	}

	doc, err := h.store.LoadDocument(ctx, r.ID)
	if err != nil {
		logger.Error("reload document failed", slog.Any("error", err))
		Internal(c, "failed to reload resume")
		return
	}

	resp := gin.H{"resume": doc.Export()}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteResume removes the resume, everything it owns, and its uploaded
// profile image. Image deletion is best-effort and never blocks the rows.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	var info database.PersonalInfo
	if err := h.db.WithContext(ctx).Where("resume_id = ?", r.ID).First(&info).Error; err == nil {
		if info.ProfilePic != "" && info.ProfilePic != database.DefaultProfilePic {
			if err := h.uploads.Delete(ctx, info.ProfilePic); err != nil {
				logger.Warn("delete profile image failed",
					slog.String("key", info.ProfilePic),
					slog.Any("error", err),
				)
			}
		}
	}

	if err := h.store.Delete(ctx, r.ID); err != nil {
		logger.Error("delete resume failed", slog.Any("error", err))
		Internal(c, "failed to delete resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resume deleted"})
}

// DownloadResume renders the document to HTML, prints it to PDF through the
// headless collaborator, and streams the bytes back. The download counter
// and the download event are recorded only after a verified success; any
// failure aborts without a partial PDF. Temp artifacts are cleaned up
// best-effort either way.
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	doc, err := h.store.LoadDocument(ctx, r.ID)
	if err != nil {
		logger.Error("load document failed", slog.Any("error", err))
		Internal(c, "failed to load resume")
		return
	}
	if doc.Info == nil {
		NotFound(c, "resume information not found")
		return
	}

	imageURL := h.profileImageURL(c, doc.Info.ProfilePic)

	html, err := render.Resume(doc, imageURL)
	if err != nil {
		if errors.Is(err, render.ErrUnknownStyle) {
			BadRequest(c, "resume style not found")
			return
		}
		logger.Error("render resume html failed", slog.Any("error", err))
		Internal(c, "failed to render resume")
		return
	}

	artifacts := pdf.NewArtifacts(h.tempDir, r.ID)
	defer artifacts.Cleanup(logger)

	if err := artifacts.WriteHTML(html); err != nil {
		logger.Error("stage html artifact failed", slog.Any("error", err))
		Internal(c, "failed to generate pdf")
		return
	}

	if err := h.generator.RenderFile(artifacts.HTMLPath, artifacts.PDFPath); err != nil {
		logger.Error("pdf generation failed", slog.Any("error", err))
		Internal(c, "failed to generate pdf")
		return
	}

	if err := artifacts.VerifyPDF(); err != nil {
		logger.Error("pdf verification failed", slog.Any("error", err))
		Internal(c, "failed to generate pdf")
		return
	}

	data, err := artifacts.ReadPDF()
	if err != nil {
		logger.Error("read pdf failed", slog.Any("error", err))
		Internal(c, "failed to generate pdf")
		return
	}

	if err := h.store.IncrementDownloadCount(ctx, r.ID); err != nil {
		logger.Error("increment download count failed", slog.Any("error", err))
	}
	if err := h.recorder.Track(ctx, userID, r.ID, analytics.ActionDownload, "Downloaded resume: "+r.Title); err != nil {
		logger.Warn("track download failed", slog.Any("error", err))
	}

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err == nil {
		if err := h.mailer.SendResumeDownloaded(ctx, user, r.Title); err != nil {
			logger.Warn("resume downloaded email failed", slog.Any("error", err))
		}
	}

	filename := sanitizeDownloadName(r.Title) + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportResumeJSON streams the document as an indented JSON attachment.
func (h *ResumeHandler) ExportResumeJSON(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	doc, err := h.store.LoadDocument(ctx, r.ID)
	if err != nil {
		logger.Error("load document failed", slog.Any("error", err))
		Internal(c, "failed to export resume")
		return
	}

	data, err := doc.ExportJSON()
	if err != nil {
		logger.Error("export json failed", slog.Any("error", err))
		Internal(c, "failed to export resume")
		return
	}

	if err := h.recorder.Track(ctx, userID, r.ID, analytics.ActionExport, "Exported resume as JSON: "+r.Title); err != nil {
		logger.Warn("track export failed", slog.Any("error", err))
	}

	filename := strings.ReplaceAll(r.Title, " ", "_") + ".json"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// SearchResumes scans the user's resumes by title or full name.
func (h *ResumeHandler) SearchResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	query := c.Query("q")
	results, err := h.store.Search(c.Request.Context(), userID, query)
	if err != nil {
		middleware.LoggerFromContext(c).Error("search failed", slog.Any("error", err))
		Internal(c, "failed to search resumes")
		return
	}

	items := make([]gin.H, 0, len(results))
	for _, r := range results {
		items = append(items, gin.H{
			"id":    r.ID,
			"title": r.Title,
			"style": r.Style,
		})
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": items})
}

// ResumeStats returns completion statistics plus derived event counts.
func (h *ResumeHandler) ResumeStats(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	r, err := h.getResumeForUser(c, userID)
	if err != nil {
		respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	completion, err := h.store.Statistics(ctx, r.ID)
	if err != nil {
		logger.Error("resume statistics failed", slog.Any("error", err))
		Internal(c, "failed to load statistics")
		return
	}

	events, err := h.recorder.ResumeStats(ctx, r.ID)
	if err != nil {
		logger.Error("resume event stats failed", slog.Any("error", err))
		Internal(c, "failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completion": completion,
		"usage":      events,
	})
}

// Dashboard aggregates usage stats across all of the user's resumes.
func (h *ResumeHandler) Dashboard(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	dashboard, err := h.recorder.Dashboard(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("dashboard failed", slog.Any("error", err))
		Internal(c, "failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// profileImageURL resolves the stored reference to a presigned URL for the
// renderer. A reference to a missing object falls back to the default
// sentinel: the record is never left pointing at a deleted file.
func (h *ResumeHandler) profileImageURL(c *gin.Context, key string) string {
	if key == "" || key == database.DefaultProfilePic {
		return ""
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	exists, err := h.uploads.Exists(ctx, key)
	if err != nil {
		logger.Warn("check profile image failed", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	if !exists {
		logger.Warn("profile image missing, falling back to default", slog.String("key", key))
		if err := h.db.WithContext(ctx).
			Model(&database.PersonalInfo{}).
			Where("profile_pic = ?", key).
			Update("profile_pic", database.DefaultProfilePic).Error; err != nil {
			logger.Warn("reset profile image reference failed", slog.Any("error", err))
		}
		return ""
	}

	url, err := h.uploads.PresignedURL(ctx, key, presignExpiry)
	if err != nil {
		logger.Warn("presign profile image failed", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return url
}

// sanitizeDownloadName strips the title down to alphanumerics, spaces,
// hyphens and underscores.
func sanitizeDownloadName(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), " ")
	if name == "" {
		name = "resume"
	}
	return name
}

// snapshotFromForm reads the parallel per-field lists out of the submitted
// form. Every list may be shorter than its section's primary list.
func snapshotFromForm(c *gin.Context) resume.EditSnapshot {
	return resume.EditSnapshot{
		PersonalInfo: resume.PersonalInfoInput{
			FullName: c.PostForm("full_name"),
			Email:    c.PostForm("resume_email"),
			Phone:    c.PostForm("phone"),
			LinkedIn: c.PostForm("linkedin"),
			GitHub:   c.PostForm("github"),
			Address:  c.PostForm("address"),
			Summary:  c.PostForm("summary"),
		},
		Education: resume.EducationInput{
			Degrees:      c.PostFormArray("degree"),
			Institutions: c.PostFormArray("institution"),
			StartYears:   c.PostFormArray("start_year"),
			EndYears:     c.PostFormArray("end_year"),
			Descriptions: c.PostFormArray("edu_description"),
		},
		Experience: resume.ExperienceInput{
			JobTitles:    c.PostFormArray("job_title"),
			Companies:    c.PostFormArray("company"),
			StartDates:   c.PostFormArray("start_date"),
			EndDates:     c.PostFormArray("end_date"),
			Descriptions: c.PostFormArray("exp_description"),
		},
		Projects: resume.ProjectInput{
			Titles:       c.PostFormArray("project_title"),
			Descriptions: c.PostFormArray("project_description"),
			TechStacks:   c.PostFormArray("tech_stack"),
			Links:        c.PostFormArray("project_link"),
		},
		Skills: resume.SkillInput{
			Names:  c.PostFormArray("skill_name"),
			Levels: c.PostFormArray("skill_level"),
		},
		Certifications: resume.CertificationInput{
			Names:           c.PostFormArray("cert_name"),
			Issuers:         c.PostFormArray("issuer"),
			IssueDates:      c.PostFormArray("issue_date"),
			CredentialLinks: c.PostFormArray("credential_link"),
		},
	}
}
