package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/payment"
	"github.com/cineghar/cineghar-api/internal/queue"
	"github.com/cineghar/cineghar-api/internal/repository"
)

// PaymentGateway is the slice of the Khalti client the handler needs.
type PaymentGateway interface {
	Initiate(ctx context.Context, req payment.InitiateRequest) (payment.InitiateResponse, error)
	Lookup(ctx context.Context, pidx string) (payment.LookupResponse, error)
}

// PublishFunc sends a payment.completed event. Broken out so tests can
// capture events instead of dialing a broker.
type PublishFunc func(ctx context.Context, event queue.PaymentCompletedEvent) error

// PaymentHandler implements the Khalti redirect flow: initiate before the
// payer leaves, one lookup when they come back.
type PaymentHandler struct {
	Cfg      config.Config
	Payments PaymentStore
	Gateway  PaymentGateway
	Publish  PublishFunc
}

func NewPaymentHandler(cfg config.Config, payments PaymentStore, gw PaymentGateway, publish PublishFunc) *PaymentHandler {
	if payments == nil || gw == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	if publish == nil {
		publish = queue.PublishPaymentCompleted
	}
	return &PaymentHandler{Cfg: cfg, Payments: payments, Gateway: gw, Publish: publish}
}

type initiatePaymentReq struct {
	AmountPaisa uint64 `json:"amount_paisa"`
	OrderName   string `json:"order_name"`
}

// InitiatePayment handles POST /api/payments/initiate (protected). It
// registers the payment with Khalti, stores an initiated row keyed by
// the returned pidx and hands the redirect URL to the client.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req initiatePaymentReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.AmountPaisa == 0 {
		return respondValidation(c, []string{"amount_paisa must be greater than zero"})
	}
	orderName := strings.TrimSpace(req.OrderName)
	if orderName == "" {
		orderName = "CineGhar tickets"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	orderID := fmt.Sprintf("CG-%d-%d", uid, time.Now().UnixMilli())
	res, err := h.Gateway.Initiate(ctx, payment.InitiateRequest{
		ReturnURL:         h.Cfg.KhaltiReturnURL,
		WebsiteURL:        h.Cfg.PublicBaseURL,
		Amount:            req.AmountPaisa,
		PurchaseOrderID:   orderID,
		PurchaseOrderName: orderName,
	})
	if err != nil {
		return respondError(c, http.StatusBadGateway, "payment provider unavailable")
	}

	p := model.Payment{
		UserID:          &uid,
		Pidx:            res.Pidx,
		AmountPaisa:     req.AmountPaisa,
		Status:          model.PaymentInitiated,
		PurchaseOrderID: orderID,
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not record payment")
	}
	return respondData(c, http.StatusCreated, echo.Map{
		"payment":     p,
		"payment_url": res.PaymentURL,
	})
}

// VerifyPayment handles GET /api/payments/verify?pidx=..., the return
// redirect from Khalti. One lookup call resolves the state; there is no
// retry. A completed payment publishes a payment.completed event after
// the row is updated, so a broker outage cannot lose the state change.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	pidx := strings.TrimSpace(c.QueryParam("pidx"))
	if pidx == "" {
		return respondError(c, http.StatusBadRequest, "pidx is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	p, err := h.Payments.GetByPidx(ctx, pidx)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return respondError(c, http.StatusNotFound, "payment not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load payment")
	}

	res, err := h.Gateway.Lookup(ctx, pidx)
	if err != nil {
		return respondError(c, http.StatusBadGateway, "payment lookup failed")
	}

	status := mapKhaltiStatus(res.Status)
	if err := h.Payments.UpdateStatus(ctx, pidx, status); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not update payment")
	}
	p.Status = status

	if status == model.PaymentCompleted {
		ev := queue.PaymentCompletedEvent{
			PaymentID:       p.ID,
			Pidx:            p.Pidx,
			PurchaseOrderID: p.PurchaseOrderID,
			AmountPaisa:     res.TotalAmount,
			CompletedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if p.UserID != nil {
			ev.UserID = *p.UserID
		}
		// Best effort; the payment row is already updated.
		_ = h.Publish(ctx, ev)
	}

	return respondData(c, http.StatusOK, p)
}

// mapKhaltiStatus translates provider lookup statuses into ours.
func mapKhaltiStatus(s string) string {
	switch s {
	case payment.StatusCompleted:
		return model.PaymentCompleted
	case payment.StatusPending:
		return model.PaymentInitiated
	case payment.StatusRefunded:
		return model.PaymentRefunded
	case payment.StatusExpired:
		return model.PaymentExpired
	default: // canceled and anything unknown
		return model.PaymentFailed
	}
}
