package remedy

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"

	"github.com/hackgods/clinic-booking-scheduler/internal/config"
)

// Gateway delivers a remedy document to the patient.
type Gateway interface {
	Deliver(ctx context.Context, doc Document) error
}

// NewGateway picks the gateway named by cfg.Provider.
func NewGateway(ctx context.Context, cfg config.MailConfig, logger zerolog.Logger) (Gateway, error) {
	switch cfg.Provider {
	case "sendgrid":
		return NewSendGridGateway(sendgrid.NewSendClient(cfg.SendGridAPIKey), cfg.FromEmail, cfg.FromName, logger), nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return NewSESGateway(sesv2.NewFromConfig(awsCfg), cfg.FromEmail, cfg.FromName, logger), nil
	case "stub", "":
		return NewStubGateway(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// StubGateway logs deliveries without sending anything.
type StubGateway struct {
	logger zerolog.Logger
}

func NewStubGateway(logger zerolog.Logger) *StubGateway {
	return &StubGateway{logger: logger}
}

func (g *StubGateway) Deliver(_ context.Context, doc Document) error {
	g.logger.Info().
		Str("to", doc.To).
		Str("attachment", doc.Attachment.Filename).
		Int("bytes", len(doc.Attachment.Content)).
		Msg("stub gateway: would deliver remedy")
	return nil
}
