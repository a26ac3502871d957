package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"canteen-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, bill_number, lookup_token, total_amount, collection_time, payment_method, payment_status, payment_id, order_status, device_id, qr_visible_at, delivered_at, created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (bill_number, lookup_token, total_amount, collection_time, payment_method, payment_status, payment_id, order_status, device_id, qr_visible_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, created_at
`
	out := o
	err = tx.QueryRow(ctx, q,
		o.BillNumber,
		o.LookupToken,
		o.TotalAmount,
		o.CollectionTime,
		o.PaymentMethod,
		string(o.PaymentStatus),
		o.PaymentID,
		string(o.OrderStatus),
		o.DeviceID,
		o.QRVisibleAt,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create bill=%s error=%v", o.BillNumber, err)
		return nil, err
	}

	const itemQ = `
INSERT INTO order_items (order_id, position, item_id, name, quantity, unit_price, original_price, discount_percent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	for i, it := range o.Items {
		if _, err := tx.Exec(ctx, itemQ, out.ID, i, it.ItemID, it.Name, it.Quantity, it.UnitPrice, it.OriginalPrice, it.DiscountPercent); err != nil {
			r.logger.Printf("order repo: create item bill=%s position=%d error=%v", o.BillNumber, i, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created bill=%s items=%d total=%d", out.BillNumber, len(out.Items), out.TotalAmount)
	return &out, nil
}

func (r *postgresRepo) GetByBillNumber(ctx context.Context, billNumber string) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE bill_number = $1`, orderColumns)
	return r.fetchOne(ctx, q, billNumber)
}

func (r *postgresRepo) GetByLookupToken(ctx context.Context, token string) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE lookup_token = $1`, orderColumns)
	return r.fetchOne(ctx, q, token)
}

func (r *postgresRepo) ListByDevice(ctx context.Context, deviceID string) ([]domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE device_id = $1 ORDER BY created_at DESC`, orderColumns)
	return r.fetchMany(ctx, q, deviceID)
}

func (r *postgresRepo) ListKitchen(ctx context.Context) ([]domain.Order, error) {
	q := fmt.Sprintf(`
SELECT %s FROM orders
WHERE payment_status = 'PAID' AND order_status IN ('PLACED', 'PREPARING')
ORDER BY created_at ASC
LIMIT 100`, orderColumns)
	return r.fetchMany(ctx, q)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)
	return r.fetchMany(ctx, q)
}

func (r *postgresRepo) ListPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	q := fmt.Sprintf(`
SELECT %s FROM orders
WHERE payment_status = 'PAID' AND created_at BETWEEN $1 AND $2
ORDER BY created_at ASC`, orderColumns)
	return r.fetchMany(ctx, q, from, to)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, billNumber string, status domain.OrderStatus, deliveredAt *time.Time) error {
	const q = `
UPDATE orders
SET order_status = $1, delivered_at = COALESCE($2, delivered_at)
WHERE bill_number = $3
`
	cmd, err := r.pool.Exec(ctx, q, string(status), deliveredAt, billNumber)
	if err != nil {
		r.logger.Printf("order repo: update status bill=%s error=%v", billNumber, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: bill=%s status=%s", billNumber, status)
	return nil
}

func (r *postgresRepo) MarkItemDelivered(ctx context.Context, billNumber string, position int, deliveredAt time.Time) error {
	const q = `
UPDATE order_items oi
SET delivered = true, delivered_at = COALESCE(oi.delivered_at, $1)
FROM orders o
WHERE o.id = oi.order_id AND o.bill_number = $2 AND oi.position = $3
`
	cmd, err := r.pool.Exec(ctx, q, deliveredAt, billNumber, position)
	if err != nil {
		r.logger.Printf("order repo: item delivered bill=%s position=%d error=%v", billNumber, position, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...any) (*domain.Order, error) {
	var o domain.Order
	if err := r.pool.QueryRow(ctx, q, args...).Scan(
		&o.ID,
		&o.BillNumber,
		&o.LookupToken,
		&o.TotalAmount,
		&o.CollectionTime,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.PaymentID,
		&o.OrderStatus,
		&o.DeviceID,
		&o.QRVisibleAt,
		&o.DeliveredAt,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.BillNumber,
			&o.LookupToken,
			&o.TotalAmount,
			&o.CollectionTime,
			&o.PaymentMethod,
			&o.PaymentStatus,
			&o.PaymentID,
			&o.OrderStatus,
			&o.DeviceID,
			&o.QRVisibleAt,
			&o.DeliveredAt,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	const q = `
SELECT order_id::text, item_id, name, quantity, unit_price, original_price, discount_percent, delivered, delivered_at
FROM order_items
WHERE order_id::text = ANY($1)
ORDER BY order_id, position
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ItemID, &it.Name, &it.Quantity, &it.UnitPrice, &it.OriginalPrice, &it.DiscountPercent, &it.Delivered, &it.DeliveredAt); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}
