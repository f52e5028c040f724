package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/sandboxsec/awaretrack/internal/config"
)

// SESTransport sends through AWS SES v2.
type SESTransport struct {
	client *sesv2.Client
	from   string
}

// NewSESTransport builds an SES client with static credentials from
// config, or the default AWS chain when none are set.
func NewSESTransport(ctx context.Context, cfg appconfig.SESConfig) (*SESTransport, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESTransport{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
	}, nil
}

// Verify calls GetAccount, which fails fast on bad credentials or an
// unreachable endpoint without sending anything.
func (t *SESTransport) Verify(ctx context.Context) error {
	if _, err := t.client.GetAccount(ctx, &sesv2.GetAccountInput{}); err != nil {
		return Classify(err)
	}
	return nil
}

// Send delivers one envelope with the SES simple content API.
func (t *SESTransport) Send(ctx context.Context, env Envelope) error {
	from := env.From
	if from == "" {
		from = t.from
	}
	if env.FromName != "" {
		from = fmt.Sprintf("%s <%s>", env.FromName, from)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{env.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(env.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(env.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := t.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", env.To, err)
	}
	return nil
}
