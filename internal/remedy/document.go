package remedy

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strings"
)

var ErrEmptyAttachment = errors.New("remedy attachment is empty")

// Attachment is the decoded remedy file.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Document is everything a gateway needs to deliver one remedy.
type Document struct {
	To          string
	PatientName string
	DoctorID    string
	PatientID   string
	TimeType    string
	Date        string
	Attachment  Attachment
}

// ParseAttachment decodes a data URL (data:image/png;base64,...) or a bare
// base64 payload, which is assumed to be a PNG image.
func ParseAttachment(raw, baseName string) (Attachment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Attachment{}, ErrEmptyAttachment
	}

	contentType := "image/png"
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		meta, data, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
		if !ok {
			return Attachment{}, errors.New("malformed data url")
		}
		mediaType, encoding, _ := strings.Cut(meta, ";")
		if encoding != "base64" {
			return Attachment{}, fmt.Errorf("unsupported data url encoding %q", encoding)
		}
		if mediaType != "" {
			contentType = mediaType
		}
		payload = data
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Attachment{}, fmt.Errorf("decode attachment: %w", err)
	}
	if len(content) == 0 {
		return Attachment{}, ErrEmptyAttachment
	}

	return Attachment{
		Filename:    baseName + "." + extensionFor(contentType),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "application/pdf":
		return "pdf"
	default:
		return "bin"
	}
}

func compose(doc Document) (subject, text, htmlBody string) {
	name := doc.PatientName
	if name == "" {
		name = "patient"
	}
	subject = "Your prescription from the clinic"
	text = fmt.Sprintf(
		"Hello %s,\n\nThank you for visiting us. Your prescription is attached to this email.\n\nBest regards,\nThe clinic",
		name,
	)
	htmlBody = fmt.Sprintf(
		"<h3>Hello %s,</h3><p>Thank you for visiting us. Your prescription is attached to this email.</p><p>Best regards,<br>The clinic</p>",
		html.EscapeString(name),
	)
	return subject, text, htmlBody
}
