package pdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Delay before unlinking: on some platforms a just-closed file handle is not
// immediately removable.
const cleanupDelay = 200 * time.Millisecond

// Artifacts is the temporary HTML/PDF path pair for one download. The random
// token keeps concurrent downloads of the same resume from colliding.
type Artifacts struct {
	HTMLPath string
	PDFPath  string
}

// NewArtifacts allocates a unique path pair under dir (os.TempDir when empty).
func NewArtifacts(dir string, resumeID uint) Artifacts {
	if dir == "" {
		dir = os.TempDir()
	}
	base := fmt.Sprintf("resume_%d_%s", resumeID, uuid.NewString()[:8])
	return Artifacts{
		HTMLPath: filepath.Join(dir, base+".html"),
		PDFPath:  filepath.Join(dir, base+".pdf"),
	}
}

// WriteHTML stages the rendered HTML source.
func (a Artifacts) WriteHTML(html string) error {
	if err := os.WriteFile(a.HTMLPath, []byte(html), 0o600); err != nil {
		return fmt.Errorf("write html artifact: %w", err)
	}
	return nil
}

// VerifyPDF enforces the render post-condition: the output file must exist
// and be non-empty, otherwise the download is treated as failed.
func (a Artifacts) VerifyPDF() error {
	info, err := os.Stat(a.PDFPath)
	if err != nil {
		return fmt.Errorf("stat pdf artifact: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("pdf artifact %s is empty", a.PDFPath)
	}
	return nil
}

// ReadPDF returns the finished PDF bytes.
func (a Artifacts) ReadPDF() ([]byte, error) {
	data, err := os.ReadFile(a.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf artifact: %w", err)
	}
	return data, nil
}

// Cleanup removes both temporary files, best effort. Failures are logged,
// never escalated.
func (a Artifacts) Cleanup(logger *slog.Logger) {
	time.Sleep(cleanupDelay)
	for _, p := range []string{a.HTMLPath, a.PDFPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("cleanup temp artifact failed",
				slog.String("path", p),
				slog.Any("error", err),
			)
		}
	}
}
