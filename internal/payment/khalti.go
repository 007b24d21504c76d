// Package payment wraps the Khalti e-payment API: one call to initiate a
// payment and get the redirect URL, one lookup call when the payer comes
// back. No retry or backoff; a failed lookup surfaces to the caller.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Khalti lookup statuses as the provider spells them.
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusRefunded  = "Refunded"
	StatusExpired   = "Expired"
	StatusCanceled  = "User canceled"
)

type KhaltiClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewKhaltiClient builds a client for the given API base (sandbox or
// live). The secret key is the merchant key sent as an Authorization
// header on every call.
func NewKhaltiClient(baseURL, secretKey string) *KhaltiClient {
	return &KhaltiClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// InitiateRequest is the payload for POST /epayment/initiate/.
type InitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            uint64 `json:"amount"` // paisa
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

// InitiateResponse carries the payment reference and the URL to redirect
// the payer to.
type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

// LookupResponse is the result of the server-side lookup by pidx.
type LookupResponse struct {
	Pidx        string `json:"pidx"`
	TotalAmount uint64 `json:"total_amount"`
	Status      string `json:"status"`
	Refunded    bool   `json:"refunded"`
}

// Initiate registers a payment with Khalti and returns the redirect URL.
func (k *KhaltiClient) Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error) {
	var out InitiateResponse
	if err := k.post(ctx, "/epayment/initiate/", req, &out); err != nil {
		return InitiateResponse{}, err
	}
	return out, nil
}

// Lookup resolves the current state of a payment by its pidx. Called once
// from the return-redirect handler.
func (k *KhaltiClient) Lookup(ctx context.Context, pidx string) (LookupResponse, error) {
	var out LookupResponse
	body := map[string]string{"pidx": pidx}
	if err := k.post(ctx, "/epayment/lookup/", body, &out); err != nil {
		return LookupResponse{}, err
	}
	return out, nil
}

func (k *KhaltiClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+k.secretKey)

	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("khalti %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
