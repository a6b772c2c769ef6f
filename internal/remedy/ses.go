package remedy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESGateway sends the remedy through AWS SES as a raw MIME message, which
// is the only SES content type that carries attachments.
type SESGateway struct {
	client    sesClient
	fromEmail string
	fromName  string
	logger    zerolog.Logger
}

func NewSESGateway(client sesClient, fromEmail, fromName string, logger zerolog.Logger) *SESGateway {
	return &SESGateway{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (g *SESGateway) Deliver(ctx context.Context, doc Document) error {
	if g.client == nil {
		return fmt.Errorf("remedy: SES client not configured")
	}

	from := (&mail.Address{Name: g.fromName, Address: g.fromEmail}).String()
	raw, err := buildMIME(from, doc)
	if err != nil {
		return fmt.Errorf("remedy: build mime: %w", err)
	}

	out, err := g.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{doc.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		g.logger.Error().Err(err).Str("to", doc.To).Msg("ses send failed")
		return fmt.Errorf("remedy: ses send failed: %w", err)
	}

	g.logger.Info().Str("to", doc.To).Str("message_id", aws.ToString(out.MessageId)).Msg("remedy sent via ses")
	return nil
}

func buildMIME(from string, doc Document) ([]byte, error) {
	subject, text, htmlBody := compose(doc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", (&mail.Address{Name: doc.PatientName, Address: doc.To}).String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	parts := []struct {
		header textproto.MIMEHeader
		body   []byte
	}{
		{textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}}, []byte(text)},
		{textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}}, []byte(htmlBody)},
	}
	for _, p := range parts {
		pw, err := w.CreatePart(p.header)
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write(p.body); err != nil {
			return nil, err
		}
	}

	ah := textproto.MIMEHeader{}
	ah.Set("Content-Type", doc.Attachment.ContentType)
	ah.Set("Content-Transfer-Encoding", "base64")
	ah.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Attachment.Filename}))
	aw, err := w.CreatePart(ah)
	if err != nil {
		return nil, err
	}
	enc := base64.NewEncoder(base64.StdEncoding, aw)
	if _, err := enc.Write(doc.Attachment.Content); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
