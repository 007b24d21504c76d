package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cineghar/cineghar-api/internal/model"
)

// PaymentRepo persists payment rows keyed by the provider reference.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentCols = "id,user_id,pidx,amount_paisa,status,purchase_order_id,created_at,updated_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var (
		p   model.Payment
		uid sql.NullInt64
	)
	err := row.Scan(&p.ID, &uid, &p.Pidx, &p.AmountPaisa, &p.Status, &p.PurchaseOrderID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	if uid.Valid {
		v := uint64(uid.Int64)
		p.UserID = &v
	}
	return p, nil
}

// Create inserts an initiated payment row and reads it back.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	var uid any
	if p.UserID != nil {
		uid = *p.UserID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (user_id, pidx, amount_paisa, status, purchase_order_id) VALUES (?,?,?,?,?)",
		uid, p.Pidx, p.AmountPaisa, p.Status, p.PurchaseOrderID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = fresh
	return nil
}

// GetByID fetches a payment by id.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// GetByPidx fetches a payment by the provider reference.
func (r *PaymentRepo) GetByPidx(ctx context.Context, pidx string) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE pidx=? LIMIT 1", pidx))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// UpdateStatus sets the status the provider reported on lookup. A repeat
// lookup writing the same status affects zero rows, so existence is not
// inferred from RowsAffected here.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, pidx, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET status=?, updated_at=CURRENT_TIMESTAMP WHERE pidx=?",
		status, pidx)
	return err
}
