package mainconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	appconfig "github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/notify"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so both binaries share the
// same wiring. Static credentials from the environment take precedence over
// the default provider chain.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

// NewEmailSender builds the operator-notification email sender selected by
// NOTIFY_PROVIDER. Returns (nil, nil) when notifications are not configured.
// The return value is only non-nil when the underlying sender is usable, so
// callers can compare it against nil directly.
func NewEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.NotifyProvider {
	case "":
		return nil, nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("NOTIFY_PROVIDER=sendgrid but SENDGRID_API_KEY is not set")
		}
		return sender, nil
	case "ses":
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("NOTIFY_PROVIDER=ses but the SES client could not be built")
		}
		return sender, nil
	case "stub":
		return notify.NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown NOTIFY_PROVIDER %q", cfg.NotifyProvider)
	}
}
