package pdf

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewArtifacts_UniquePaths(t *testing.T) {
	dir := t.TempDir()

	a := NewArtifacts(dir, 5)
	b := NewArtifacts(dir, 5)

	assert.NotEqual(t, a.HTMLPath, b.HTMLPath)
	assert.NotEqual(t, a.PDFPath, b.PDFPath)
	assert.Contains(t, a.HTMLPath, "resume_5_")
	assert.Contains(t, a.PDFPath, ".pdf")
}

func TestNewArtifacts_FallsBackToTempDir(t *testing.T) {
	a := NewArtifacts("", 1)
	assert.Contains(t, a.HTMLPath, os.TempDir())
}

func TestWriteHTMLAndVerifyPDF(t *testing.T) {
	a := NewArtifacts(t.TempDir(), 1)

	require.NoError(t, a.WriteHTML("<html><body>ok</body></html>"))
	data, err := os.ReadFile(a.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok")

	// No PDF written yet.
	assert.Error(t, a.VerifyPDF())

	// An empty output file still counts as a failed render.
	require.NoError(t, os.WriteFile(a.PDFPath, nil, 0o600))
	assert.Error(t, a.VerifyPDF())

	require.NoError(t, os.WriteFile(a.PDFPath, []byte("%PDF-1.4"), 0o600))
	assert.NoError(t, a.VerifyPDF())

	pdf, err := a.ReadPDF()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
}

func TestCleanup_RemovesBothFiles(t *testing.T) {
	a := NewArtifacts(t.TempDir(), 9)
	require.NoError(t, a.WriteHTML("<html></html>"))
	require.NoError(t, os.WriteFile(a.PDFPath, []byte("%PDF-1.4"), 0o600))

	a.Cleanup(discardLogger())

	_, err := os.Stat(a.HTMLPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(a.PDFPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanup_MissingFilesAreQuiet(t *testing.T) {
	a := NewArtifacts(t.TempDir(), 9)
	// Nothing was ever written; Cleanup must not panic or complain loudly.
	a.Cleanup(discardLogger())
}
