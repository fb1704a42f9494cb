// Package gateway talks to the external payment provider: it creates remote
// payment intents and verifies the HMAC signature of payment callbacks.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"storefront/internal/metrics"
)

// Intent is a remote payment-provider record representing an expected charge.
type Intent struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

type Client struct {
	http      *resty.Client
	breaker   *gobreaker.CircuitBreaker
	logger    *log.Logger
	keyID     string
	keySecret string
	currency  string
}

func New(baseURL, keyID, keySecret, currency string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetBasicAuth(keyID, keySecret)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.GatewayBreakerState.Set(state)
			logger.Printf("gateway: circuit %s %s -> %s", name, from, to)
		},
	})

	return &Client{
		http:      http,
		breaker:   breaker,
		logger:    logger,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
	}
}

// Configured reports whether gateway credentials are present.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// KeyID is the public key identifier handed to the frontend checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// Currency is the settlement currency for created intents.
func (c *Client) Currency() string {
	return c.currency
}

type createIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateIntent opens a remote payment intent for the given amount in minor
// currency units. The receipt ties the intent back to our order.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, receipt string, notes map[string]string) (*Intent, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var intent Intent
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("X-Request-Id", uuid.NewString()).
			SetBody(createIntentRequest{
				Amount:   amountCents,
				Currency: c.currency,
				Receipt:  receipt,
				Notes:    notes,
			}).
			SetResult(&intent).
			Post("/orders")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("gateway: create intent status %d: %s", resp.StatusCode(), resp.String())
		}
		return &intent, nil
	})
	if err != nil {
		c.logger.Printf("gateway: create intent amount_cents=%d error=%v", amountCents, err)
		return nil, err
	}

	intent := out.(*Intent)
	c.logger.Printf("gateway: intent created id=%s amount_cents=%d", intent.ID, intent.AmountCents)
	return intent, nil
}

// VerifySignature recomputes HMAC-SHA256 over "intentID|paymentID" with the
// shared secret and compares it to the supplied signature in constant time.
// This is the sole proof that a payment actually happened; client-asserted
// payment status is never trusted without it.
func (c *Client) VerifySignature(intentID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
