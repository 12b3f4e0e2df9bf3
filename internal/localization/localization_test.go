package localization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	en := `{
		"grievance.status.RESOLVED": "Your grievance {{id}} has been resolved. {{remarks}}",
		"greeting": "Hello"
	}`
	uk := `{
		"greeting": "Привіт"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(en), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.json"), []byte(uk), 0o644))
	// Non-template files in the directory are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))
	return dir
}

func TestNewLocalizerMissingDir(t *testing.T) {
	_, err := NewLocalizer(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGetStringFallback(t *testing.T) {
	l, err := NewLocalizer(writeTemplates(t))
	require.NoError(t, err)

	// Exact language hit.
	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))

	// Missing in uk, present in en.
	assert.Equal(t,
		"Your grievance {{id}} has been resolved. {{remarks}}",
		l.GetString("uk", "grievance.status.RESOLVED"))

	// Unknown language falls through to en.
	assert.Equal(t, "Hello", l.GetString("de", "greeting"))

	// Missing everywhere: the key itself comes back.
	assert.Equal(t, "no.such.key", l.GetString("en", "no.such.key"))
}

func TestFormat(t *testing.T) {
	l, err := NewLocalizer(writeTemplates(t))
	require.NoError(t, err)

	got := l.Format("en", "grievance.status.RESOLVED", map[string]string{
		"id":      "GRV-42",
		"remarks": "Pothole filled.",
	})
	assert.Equal(t, "Your grievance GRV-42 has been resolved. Pothole filled.", got)

	// Unsubstituted placeholders stay visible.
	partial := l.Format("en", "grievance.status.RESOLVED", map[string]string{"id": "GRV-42"})
	assert.Contains(t, partial, "{{remarks}}")
}

func TestBundledTemplates(t *testing.T) {
	l, err := NewLocalizer("templates")
	require.NoError(t, err)

	msg := l.GetString("en", "grievance.status.RESOLVED")
	assert.NotEqual(t, "grievance.status.RESOLVED", msg, "bundled en template must exist")
	assert.Contains(t, msg, "{{id}}")
}
