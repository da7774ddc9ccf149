package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lmendes/studytrack/internal/logger"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioClient sends SMS through the Twilio REST API.
type TwilioClient struct {
	httpClient *http.Client
	baseURL    string
	sid        string
	authToken  string
	from       string
	log        *logger.Logger
}

func NewTwilioClient(sid, authToken, from string) *TwilioClient {
	return &TwilioClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    twilioBaseURL,
		sid:        sid,
		authToken:  authToken,
		from:       from,
		log:        logger.Default().WithPrefix("twilio"),
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *TwilioClient) WithBaseURL(base string) *TwilioClient {
	c.baseURL = base
	return c
}

func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	log := logger.FromContext(ctx).WithPrefix("twilio").WithField("to", to)

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.SetBasicAuth(c.sid, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Debug("sending SMS")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to send SMS: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("twilio response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("twilio request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("twilio status %d: %s", resp.StatusCode, string(respBody))
	}

	log.Info("SMS sent")
	return nil
}
