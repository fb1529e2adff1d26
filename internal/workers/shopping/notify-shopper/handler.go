// internal/workers/shopping/notify-shopper/handler.go
package notifyshopper

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"shopping-assistant/internal/assistant"
	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-shopper"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
	now       func() time.Time
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    scoped,
		errors:    apperrors.NewErrorHandler(scoped),
		now:       time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return stdErr
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

// execute reports delivery problems through Output.Status; only malformed
// input fails the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("invalid email %q", email))
		}
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && email != "" && h.sesClient != nil {
		if err := h.sendEmail(ctx, email, input); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"notificationId": out.NotificationID,
				"error":          err.Error(),
			})
			out.Status = StatusFailed
		} else {
			out.Status = StatusSent
		}
	}

	if h.config.TopicARN != "" && h.snsClient != nil {
		if err := h.publishEvent(ctx, out, input); err != nil {
			h.logger.Warn("search event publish failed", map[string]interface{}{
				"notificationId": out.NotificationID,
				"error":          err.Error(),
			})
		} else {
			out.EventPublished = true
		}
	}

	h.logger.Info("shopper notified", map[string]interface{}{
		"notificationId": out.NotificationID,
		"status":         out.Status,
		"eventPublished": out.EventPublished,
		"listings":       len(input.RankedListings),
	})
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, input *Input) error {
	subject, text, htmlBody := renderEmail(input)
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) publishEvent(ctx context.Context, out *Output, input *Input) error {
	event := models.SearchCompletedEvent{
		EventType:      EventSearchCompleted,
		NotificationID: out.NotificationID,
		Query:          input.Query,
		ListingIDs:     make([]string, 0, len(input.RankedListings)),
		OccurredAt:     out.SentAt,
	}
	for _, l := range input.RankedListings {
		event.ListingIDs = append(event.ListingIDs, l.ID)
	}
	if len(input.RankedListings) > 0 {
		event.TopListing = input.RankedListings[0].Name
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventSearchCompleted),
			},
		},
	})
	return err
}

func renderEmail(input *Input) (subject, text, htmlBody string) {
	subject = fmt.Sprintf("Your picks for %q", input.Query)
	cards := assistant.Format(input.RankedListings)
	text = strings.TrimSpace(input.Recommendation + "\n\n" + cards)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>\n<ol>\n", html.EscapeString(input.Recommendation))
	for _, l := range input.RankedListings {
		name := html.EscapeString(l.Name)
		if l.URL != "" {
			name = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.URL), name)
		}
		fmt.Fprintf(&b, "<li>%s</li>\n", name)
	}
	b.WriteString("</ol>")
	return subject, text, b.String()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
