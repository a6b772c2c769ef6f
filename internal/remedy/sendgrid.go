package remedy

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridGateway sends the remedy as an email attachment through SendGrid.
type SendGridGateway struct {
	client    sendGridClient
	fromEmail string
	fromName  string
	logger    zerolog.Logger
}

func NewSendGridGateway(client sendGridClient, fromEmail, fromName string, logger zerolog.Logger) *SendGridGateway {
	return &SendGridGateway{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (g *SendGridGateway) Deliver(ctx context.Context, doc Document) error {
	if g.client == nil {
		return fmt.Errorf("remedy: sendgrid client not configured")
	}

	subject, text, htmlBody := compose(doc)
	from := mail.NewEmail(g.fromName, g.fromEmail)
	to := mail.NewEmail(doc.PatientName, doc.To)
	message := mail.NewSingleEmail(from, subject, to, text, htmlBody)

	att := mail.NewAttachment()
	att.SetContent(base64.StdEncoding.EncodeToString(doc.Attachment.Content))
	att.SetType(doc.Attachment.ContentType)
	att.SetFilename(doc.Attachment.Filename)
	att.SetDisposition("attachment")
	message.AddAttachment(att)

	response, err := g.client.SendWithContext(ctx, message)
	if err != nil {
		g.logger.Error().Err(err).Str("to", doc.To).Msg("sendgrid send failed")
		return fmt.Errorf("remedy: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		g.logger.Error().Int("status", response.StatusCode).Str("body", response.Body).Str("to", doc.To).Msg("sendgrid returned error status")
		return fmt.Errorf("remedy: sendgrid returned status %d", response.StatusCode)
	}

	g.logger.Info().Str("to", doc.To).Int("status", response.StatusCode).Msg("remedy sent via sendgrid")
	return nil
}
