package api

import (
	"log/slog"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"resumebuilder/internal/api/middleware"
	"resumebuilder/internal/database"
	"resumebuilder/internal/storage"
)

const presignExpiry = 15 * time.Minute

// storeProfileImage handles an optional profile_pic upload. On success the
// new upload-store key is returned and the previous non-default image is
// deleted best-effort. On failure the previous reference stays in place and
// a user-visible warning is returned instead: the record must never point
// at a file that was not written.
func (h *ResumeHandler) storeProfileImage(c *gin.Context, userID uint, previous string) (key, warning string) {
	file, err := c.FormFile("profile_pic")
	if err != nil || file == nil || file.Filename == "" {
		return "", ""
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if h.clamdAddr != "" {
		reader, err := file.Open()
		if err != nil {
			logger.Error("open upload failed", slog.Any("error", err))
			return "", "Error uploading image: could not read file."
		}
		abortChan := make(chan bool)
		scanChan, err := clamd.NewClamd(h.clamdAddr).ScanStream(reader, abortChan)
		reader.Close()
		if err != nil {
			close(abortChan)
			logger.Error("scan upload failed", slog.Any("error", err))
			return "", "Error uploading image: scan unavailable."
		}
		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				close(abortChan)
				logger.Warn("malicious upload rejected", slog.Uint64("user_id", uint64(userID)))
				return "", "Error uploading image: file rejected."
			}
		}
		close(abortChan)
	}

	reader, err := file.Open()
	if err != nil {
		logger.Error("open upload failed", slog.Any("error", err))
		return "", "Error uploading image: could not read file."
	}
	defer reader.Close()

	newKey := storage.NewProfileImageKey(userID, file.Filename, time.Now())
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.uploads.Upload(ctx, newKey, reader, file.Size, contentType); err != nil {
		logger.Error("upload profile image failed", slog.Any("error", err))
		return "", "Error uploading image: storage write failed."
	}

	if previous != "" && previous != database.DefaultProfilePic {
		if err := h.uploads.Delete(ctx, previous); err != nil {
			// Leftover garbage is acceptable; a broken reference is not.
			logger.Warn("delete previous profile image failed",
				slog.String("key", previous),
				slog.Any("error", err),
			)
		}
	}

	return newKey, ""
}
