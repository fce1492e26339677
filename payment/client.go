// Package payment is the thin adapter over the external card processor.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shop-api/models"
)

// GatewayError is a non-success answer from the processor (typically a
// declined card). Body is the processor's response unchanged so callers can
// pass it through to the client verbatim.
type GatewayError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway returned status %d", e.StatusCode)
}

// ChargeResult is the gateway's success payload: the masked card it kept on
// file and the transaction record.
type ChargeResult struct {
	CreditCard  models.CreditCardOnFile `json:"credit_card"`
	Transaction models.Transaction      `json:"transaction"`
}

type chargeRequest struct {
	CreditCard    json.RawMessage `json:"credit_card"`
	AmountCharged float64         `json:"amount_charged"`
}

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Charge performs the single outbound call to the processor. The credit card
// JSON is forwarded exactly as the client submitted it. Transport failures
// are returned as plain errors, distinct from *GatewayError declines.
func (c *Client) Charge(ctx context.Context, creditCard json.RawMessage, amount float64) (*ChargeResult, error) {
	body, err := json.Marshal(chargeRequest{
		CreditCard:    creditCard,
		AmountCharged: amount,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling payment gateway: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			return
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: respBody}
	}

	var result ChargeResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	return &result, nil
}
