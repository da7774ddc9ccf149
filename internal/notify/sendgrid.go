package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lmendes/studytrack/internal/logger"
)

const sendGridSendURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridClient sends email through the SendGrid v3 API.
type SendGridClient struct {
	httpClient *http.Client
	sendURL    string
	apiKey     string
	from       string
	log        *logger.Logger
}

func NewSendGridClient(apiKey, from string) *SendGridClient {
	return &SendGridClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		sendURL:    sendGridSendURL,
		apiKey:     apiKey,
		from:       from,
		log:        logger.Default().WithPrefix("sendgrid"),
	}
}

// WithSendURL overrides the API endpoint. Used by tests.
func (c *SendGridClient) WithSendURL(u string) *SendGridClient {
	c.sendURL = u
	return c
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (c *SendGridClient) SendEmail(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx).WithPrefix("sendgrid").WithField("to", to)

	payload := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: to}}}},
		From:             sendGridAddress{Email: c.from},
		Subject:          subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: body}},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(raw))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug("sending email: subject=%q", subject)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to send email: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("sendgrid response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("sendgrid request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, string(respBody))
	}

	log.Info("email sent")
	return nil
}
