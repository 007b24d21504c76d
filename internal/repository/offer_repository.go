package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cineghar/cineghar-api/internal/model"
)

// OfferRepo provides CRUD over the `offers` table.
type OfferRepo struct{ DB *sql.DB }

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{DB: db} }

const offerCols = "id,name,code,discount_type,discount_percent,discount_amount,bonus_points,starts_at,ends_at,is_active,max_redemptions,redeemed_count,created_at,updated_at"

func scanOffer(row interface{ Scan(...any) error }) (model.Offer, error) {
	var o model.Offer
	err := row.Scan(&o.ID, &o.Name, &o.Code, &o.DiscountType, &o.DiscountPercent, &o.DiscountAmount,
		&o.BonusPoints, &o.StartsAt, &o.EndsAt, &o.IsActive, &o.MaxRedemptions, &o.RedeemedCount,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create inserts an offer and reads the row back. Duplicate codes surface
// as ErrOfferCodeExists.
func (r *OfferRepo) Create(ctx context.Context, o *model.Offer) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO offers (name, code, discount_type, discount_percent, discount_amount, bonus_points,
			starts_at, ends_at, is_active, max_redemptions)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		o.Name, strings.ToUpper(o.Code), o.DiscountType, o.DiscountPercent, o.DiscountAmount,
		o.BonusPoints, o.StartsAt, o.EndsAt, o.IsActive, o.MaxRedemptions)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrOfferCodeExists
		}
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
	*o = fresh
	return nil
}

// GetByID fetches an offer by id.
func (r *OfferRepo) GetByID(ctx context.Context, id uint64) (model.Offer, error) {
	o, err := scanOffer(r.DB.QueryRowContext(ctx,
		"SELECT "+offerCols+" FROM offers WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Offer{}, ErrOfferNotFound
	}
	return o, err
}

// GetByCode fetches an offer by its upper-cased code.
func (r *OfferRepo) GetByCode(ctx context.Context, code string) (model.Offer, error) {
	o, err := scanOffer(r.DB.QueryRowContext(ctx,
		"SELECT "+offerCols+" FROM offers WHERE code=? LIMIT 1",
		strings.ToUpper(strings.TrimSpace(code))))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Offer{}, ErrOfferNotFound
	}
	return o, err
}

// List returns one page of offers sorted by creation time descending plus
// the total count.
func (r *OfferRepo) List(ctx context.Context, page, limit int) ([]model.Offer, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM offers").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+offerCols+" FROM offers ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Offer, 0, limit)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// OfferPatch carries the optional fields of a partial offer update.
type OfferPatch struct {
	Name            *string
	Code            *string
	DiscountType    *string
	DiscountPercent *float64
	DiscountAmount  *float64
	BonusPoints     *uint32
	StartsAt        *time.Time
	EndsAt          *time.Time
	IsActive        *bool
	MaxRedemptions  *uint32
}

// Update merges the patch into the offer row. A code collision with
// another offer surfaces as ErrOfferCodeExists.
func (r *OfferRepo) Update(ctx context.Context, id uint64, p OfferPatch) error {
	set := []string{}
	args := []any{}
	if p.Name != nil {
		set = append(set, "name=?")
		args = append(args, strings.TrimSpace(*p.Name))
	}
	if p.Code != nil {
		set = append(set, "code=?")
		args = append(args, strings.ToUpper(strings.TrimSpace(*p.Code)))
	}
	if p.DiscountType != nil {
		set = append(set, "discount_type=?")
		args = append(args, *p.DiscountType)
	}
	if p.DiscountPercent != nil {
		set = append(set, "discount_percent=?")
		args = append(args, *p.DiscountPercent)
	}
	if p.DiscountAmount != nil {
		set = append(set, "discount_amount=?")
		args = append(args, *p.DiscountAmount)
	}
	if p.BonusPoints != nil {
		set = append(set, "bonus_points=?")
		args = append(args, *p.BonusPoints)
	}
	if p.StartsAt != nil {
		set = append(set, "starts_at=?")
		args = append(args, *p.StartsAt)
	}
	if p.EndsAt != nil {
		set = append(set, "ends_at=?")
		args = append(args, *p.EndsAt)
	}
	if p.IsActive != nil {
		set = append(set, "is_active=?")
		args = append(args, *p.IsActive)
	}
	if p.MaxRedemptions != nil {
		set = append(set, "max_redemptions=?")
		args = append(args, *p.MaxRedemptions)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE offers SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrOfferCodeExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// Delete removes an offer row. Missing ids return ErrOfferNotFound.
func (r *OfferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM offers WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfferNotFound
	}
	return nil
}
