// Package telecom is a client for the Africa's Talking SMS and Voice APIs.
package telecom

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// Config holds the gateway account and endpoints.
type Config struct {
	Username string
	APIKey   string
	SMSURL   string
	VoiceURL string
	SenderID string
	Timeout  time.Duration
}

// SMSResult is the gateway's verdict for the single recipient of a message.
type SMSResult struct {
	Number     string
	Status     string
	StatusCode int
	MessageID  string
	Cost       string
}

// CallResult is the gateway's verdict for an outbound call.
type CallResult struct {
	Number    string
	Status    string
	SessionID string
}

type smsResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			Cost       string `json:"cost"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

type callResponse struct {
	Entries []struct {
		PhoneNumber string `json:"phoneNumber"`
		Status      string `json:"status"`
		SessionID   string `json:"sessionId"`
	} `json:"entries"`
	ErrorMessage string `json:"errorMessage"`
}

// Client sends requests to the gateway. Requests are not retried.
type Client struct {
	sms      *resty.Client
	voice    *resty.Client
	username string
	senderID string
}

// NewClient creates a Client for the account in cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	newREST := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("apiKey", cfg.APIKey)
	}

	return &Client{
		sms:      newREST(cfg.SMSURL),
		voice:    newREST(cfg.VoiceURL),
		username: cfg.Username,
		senderID: cfg.SenderID,
	}
}

// SendSMS sends message to a single recipient.
func (c *Client) SendSMS(ctx context.Context, to, message string) (SMSResult, error) {
	form := map[string]string{
		"username": c.username,
		"to":       to,
		"message":  message,
	}
	if c.senderID != "" {
		form["from"] = c.senderID
	}

	var out smsResponse
	resp, err := c.sms.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		Post("/version1/messaging")
	if err != nil {
		return SMSResult{}, fmt.Errorf("%w: send sms: %v", domain.ErrGateway, err)
	}
	if resp.IsError() {
		return SMSResult{}, fmt.Errorf("%w: send sms: %s", domain.ErrGateway, resp.Status())
	}

	recipients := out.SMSMessageData.Recipients
	if len(recipients) == 0 {
		return SMSResult{}, fmt.Errorf("%w: send sms: %s", domain.ErrGateway, out.SMSMessageData.Message)
	}

	r := recipients[0]
	result := SMSResult{
		Number:     r.Number,
		Status:     r.Status,
		StatusCode: r.StatusCode,
		MessageID:  r.MessageID,
		Cost:       r.Cost,
	}
	// 100 Processed, 101 Sent, 102 Queued.
	if r.StatusCode < 100 || r.StatusCode > 102 {
		return result, fmt.Errorf("%w: send sms: recipient status %s (%d)", domain.ErrGateway, r.Status, r.StatusCode)
	}
	return result, nil
}

// Call asks the gateway to connect from, one of the account's numbers, to
// the recipient.
func (c *Client) Call(ctx context.Context, from, to string) (CallResult, error) {
	var out callResponse
	resp, err := c.voice.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": c.username,
			"from":     from,
			"to":       to,
		}).
		SetResult(&out).
		Post("/call")
	if err != nil {
		return CallResult{}, fmt.Errorf("%w: place call: %v", domain.ErrGateway, err)
	}
	if resp.IsError() {
		return CallResult{}, fmt.Errorf("%w: place call: %s", domain.ErrGateway, resp.Status())
	}
	if out.ErrorMessage != "" && out.ErrorMessage != "None" {
		return CallResult{}, fmt.Errorf("%w: place call: %s", domain.ErrGateway, out.ErrorMessage)
	}
	if len(out.Entries) == 0 {
		return CallResult{}, fmt.Errorf("%w: place call: empty response", domain.ErrGateway)
	}

	e := out.Entries[0]
	result := CallResult{Number: e.PhoneNumber, Status: e.Status, SessionID: e.SessionID}
	if e.Status != "Queued" {
		return result, fmt.Errorf("%w: place call: status %s", domain.ErrGateway, e.Status)
	}
	return result, nil
}
