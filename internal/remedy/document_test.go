package remedy

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttachmentDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	att, err := ParseAttachment("data:application/pdf;base64,"+payload, "remedy-p1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.Equal(t, "remedy-p1.pdf", att.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), att.Content)
}

func TestParseAttachmentBareBase64DefaultsToPNG(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})

	att, err := ParseAttachment(payload, "remedy")
	require.NoError(t, err)
	assert.Equal(t, "image/png", att.ContentType)
	assert.Equal(t, "remedy.png", att.Filename)
}

func TestParseAttachmentErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"no comma", "data:image/png;base64"},
		{"not base64 encoded url", "data:image/png,hello"},
		{"bad payload", "data:image/png;base64,!!!"},
		{"empty payload", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAttachment(tt.raw, "x")
			assert.Error(t, err)
		})
	}
}

func TestComposeEscapesName(t *testing.T) {
	_, text, html := compose(Document{PatientName: "<Ann>"})
	assert.Contains(t, text, "Hello <Ann>")
	assert.Contains(t, html, "&lt;Ann&gt;")

	_, text, _ = compose(Document{})
	assert.Contains(t, text, "Hello patient")
}
