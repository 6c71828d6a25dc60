package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type smsAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Notifier tells the site owner about new contact messages by email (Resend) and SMS (Twilio).
// Each channel is skipped when it is not configured.
type Notifier struct {
	logger zerolog.Logger
	bg     *Background

	httpClient     *http.Client
	resendEndpoint string
	resendAPIKey   string
	fromEmail      string
	toEmail        string

	sms        smsAPI
	fromNumber string
	toNumber   string
}

func NewNotifier(cfg config.Config, bg *Background) *Notifier {
	n := &Notifier{
		logger:         log.With().Str("service", "notifier").Logger(),
		bg:             bg,
		httpClient:     &http.Client{},
		resendEndpoint: resendEndpoint,
		resendAPIKey:   cfg.ResendAPIKey,
		fromEmail:      cfg.ResendFromEmail,
		toEmail:        cfg.NotifyEmail,
		fromNumber:     cfg.TwilioFromNumber,
		toNumber:       cfg.NotifyPhone,
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		n.sms = client.Api
	}
	return n
}

func (n *Notifier) emailEnabled() bool {
	return n.resendAPIKey != "" && n.fromEmail != "" && n.toEmail != ""
}

func (n *Notifier) smsEnabled() bool {
	return n.sms != nil && n.fromNumber != "" && n.toNumber != ""
}

// ContactReceived queues notifications for msg. It never blocks the caller.
func (n *Notifier) ContactReceived(msg models.ContactMessage) {
	if n == nil {
		return
	}
	if n.emailEnabled() {
		n.bg.Go("notify contact email", func(ctx context.Context) error {
			return n.SendEmail(ctx, contactSubject(msg), contactEmailBody(msg), []string{n.toEmail})
		})
	}
	if n.smsEnabled() {
		n.bg.Go("notify contact sms", func(ctx context.Context) error {
			return n.SendSMS(contactSMSBody(msg))
		})
	}
}

// SendEmail sends an email using the Resend API
func (n *Notifier) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    n.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.resendEndpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.resendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

// SendSMS texts body to the configured phone number through Twilio
func (n *Notifier) SendSMS(body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.toNumber)
	params.SetFrom(n.fromNumber)
	params.SetBody(body)

	resp, err := n.sms.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms via Twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		n.logger.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}

func contactSubject(msg models.ContactMessage) string {
	if msg.Subject != "" {
		return "New message: " + msg.Subject
	}
	return "New message from " + msg.Name
}

func contactEmailBody(msg models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(msg.Name), html.EscapeString(msg.Email))
	if msg.Subject != "" {
		fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(msg.Subject))
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	return b.String()
}

func contactSMSBody(msg models.ContactMessage) string {
	text := msg.Message
	if r := []rune(text); len(r) > 120 {
		text = string(r[:120]) + "…"
	}
	return fmt.Sprintf("New contact from %s (%s): %s", msg.Name, msg.Email, text)
}
