package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cineghar/cineghar-api/internal/handler"
	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/payment"
	"github.com/cineghar/cineghar-api/internal/queue"
)

func newPaymentHandler(t *testing.T, gw *mockGateway) (*handler.PaymentHandler, *mockPaymentStore, *[]queue.PaymentCompletedEvent) {
	t.Helper()
	store := newMockPaymentStore()
	var published []queue.PaymentCompletedEvent
	h := handler.NewPaymentHandler(testConfig(t), store, gw, func(_ context.Context, ev queue.PaymentCompletedEvent) error {
		published = append(published, ev)
		return nil
	})
	return h, store, &published
}

func TestInitiatePaymentRequiresAuth(t *testing.T) {
	h, _, _ := newPaymentHandler(t, &mockGateway{})
	c, rec := newJSONContext(t, http.MethodPost, "/api/payments/initiate", map[string]any{
		"amount_paisa": 50000,
	})
	if err := h.InitiatePayment(c); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without a session", rec.Code)
	}
}

func TestInitiatePayment(t *testing.T) {
	gw := &mockGateway{
		initiateRes: payment.InitiateResponse{
			Pidx:       "pidx-abc",
			PaymentURL: "https://pay.khalti.com/?pidx=pidx-abc",
		},
	}
	h, store, _ := newPaymentHandler(t, gw)

	c, rec := newJSONContext(t, http.MethodPost, "/api/payments/initiate", map[string]any{
		"amount_paisa": 50000,
		"order_name":   "2x Pashupati Prasad",
	})
	c.Set("user_id", float64(7))
	if err := h.InitiatePayment(c); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var data struct {
		Payment    model.Payment `json:"payment"`
		PaymentURL string        `json:"payment_url"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.PaymentURL != gw.initiateRes.PaymentURL {
		t.Errorf("payment_url = %q", data.PaymentURL)
	}
	if data.Payment.Status != model.PaymentInitiated {
		t.Errorf("status = %q, want initiated", data.Payment.Status)
	}

	stored, err := store.GetByPidx(context.Background(), "pidx-abc")
	if err != nil {
		t.Fatalf("payment row not stored: %v", err)
	}
	if stored.UserID == nil || *stored.UserID != 7 {
		t.Errorf("user_id = %v, want 7", stored.UserID)
	}
	if stored.AmountPaisa != 50000 {
		t.Errorf("amount = %d, want 50000", stored.AmountPaisa)
	}
}

func TestInitiatePaymentZeroAmount(t *testing.T) {
	h, _, _ := newPaymentHandler(t, &mockGateway{})
	c, rec := newJSONContext(t, http.MethodPost, "/api/payments/initiate", map[string]any{
		"amount_paisa": 0,
	})
	c.Set("user_id", float64(7))
	if err := h.InitiatePayment(c); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func seedPayment(t *testing.T, store *mockPaymentStore, pidx string) model.Payment {
	t.Helper()
	uid := uint64(7)
	p := model.Payment{UserID: &uid, Pidx: pidx, AmountPaisa: 50000, Status: model.PaymentInitiated, PurchaseOrderID: "CG-7-1"}
	if err := store.Create(context.Background(), &p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func TestVerifyPaymentCompleted(t *testing.T) {
	gw := &mockGateway{
		lookupRes: payment.LookupResponse{Pidx: "pidx-abc", TotalAmount: 50000, Status: payment.StatusCompleted},
	}
	h, store, published := newPaymentHandler(t, gw)
	seedPayment(t, store, "pidx-abc")

	c, rec := newJSONContext(t, http.MethodGet, "/api/payments/verify?pidx=pidx-abc", nil)
	if err := h.VerifyPayment(c); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if gw.lastLookup != "pidx-abc" {
		t.Errorf("lookup called with %q", gw.lastLookup)
	}

	stored, _ := store.GetByPidx(context.Background(), "pidx-abc")
	if stored.Status != model.PaymentCompleted {
		t.Errorf("status = %q, want completed", stored.Status)
	}
	if len(*published) != 1 {
		t.Fatalf("published %d events, want 1", len(*published))
	}
	ev := (*published)[0]
	if ev.Pidx != "pidx-abc" || ev.UserID != 7 || ev.AmountPaisa != 50000 {
		t.Errorf("event = %+v", ev)
	}
}

func TestVerifyPaymentStatusMapping(t *testing.T) {
	cases := []struct {
		provider string
		want     string
		events   int
	}{
		{payment.StatusCompleted, model.PaymentCompleted, 1},
		{payment.StatusPending, model.PaymentInitiated, 0},
		{payment.StatusRefunded, model.PaymentRefunded, 0},
		{payment.StatusExpired, model.PaymentExpired, 0},
		{payment.StatusCanceled, model.PaymentFailed, 0},
		{"Something New", model.PaymentFailed, 0},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			gw := &mockGateway{lookupRes: payment.LookupResponse{Pidx: "p1", Status: tc.provider}}
			h, store, published := newPaymentHandler(t, gw)
			seedPayment(t, store, "p1")

			c, rec := newJSONContext(t, http.MethodGet, "/api/payments/verify?pidx=p1", nil)
			if err := h.VerifyPayment(c); err != nil {
				t.Fatalf("VerifyPayment: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			stored, _ := store.GetByPidx(context.Background(), "p1")
			if stored.Status != tc.want {
				t.Errorf("status = %q, want %q", stored.Status, tc.want)
			}
			if len(*published) != tc.events {
				t.Errorf("published %d events, want %d", len(*published), tc.events)
			}
		})
	}
}

func TestVerifyPaymentUnknownPidx(t *testing.T) {
	h, _, _ := newPaymentHandler(t, &mockGateway{})
	c, rec := newJSONContext(t, http.MethodGet, "/api/payments/verify?pidx=nope", nil)
	if err := h.VerifyPayment(c); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestVerifyPaymentMissingPidx(t *testing.T) {
	h, _, _ := newPaymentHandler(t, &mockGateway{})
	c, rec := newJSONContext(t, http.MethodGet, "/api/payments/verify", nil)
	if err := h.VerifyPayment(c); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
