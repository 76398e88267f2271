package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender delivers mail through Amazon SES. The From address must be
// verified with SES.
type SESSender struct {
	client *ses.Client
	from   string
}

func NewSESSender(awsConfig aws.Config, from string) *SESSender {
	return &SESSender{
		client: ses.NewFromConfig(awsConfig),
		from:   from,
	}
}

func (s *SESSender) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	return err
}
