package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-system/internal/cart"
	"storefront-system/internal/orders/domain/dao"
)

var ErrNotFound = errors.New("order not found")

type OrderRepositoryInterface interface {
	AddOrder(ctx context.Context, order dao.Order) (int, error)
	GetOrderCount(ctx context.Context) (int, error)
	ListOrders(ctx context.Context) ([]dao.Order, error)
	GetOrder(ctx context.Context, id int) (dao.Order, error)
	UpdateStatus(ctx context.Context, id int, status, changedBy string) error
	GetStatusLog(ctx context.Context, id int) ([]dao.StatusEvent, error)
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) GetOrderCount(ctx context.Context) (int, error) {
	var count int
	err := or.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get order count: %w", err)
	}
	return count, nil
}

// AddOrder writes the order, its items and the initial status log row in
// one transaction.
func (or *OrderRepository) AddOrder(ctx context.Context, order dao.Order) (int, error) {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		    (order_number, vertical, status, payment_method, payment_ref,
		     subtotal, handling_fee, delivery_fee, grand_total,
		     first_name, last_name, gender, address, city, state, pin_code, phone,
		     created_at, updated_at)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id
	`,
		order.OrderNumber,
		string(order.Vertical),
		order.Status,
		order.PaymentMethod,
		order.PaymentRef,
		order.Subtotal,
		order.HandlingFee,
		order.DeliveryFee,
		order.GrandTotal,
		order.FirstName,
		order.LastName,
		order.Gender,
		order.Address,
		order.City,
		order.State,
		order.PinCode,
		order.Phone,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_id, name, price, quantity, image, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`, orderID, item.ItemID, item.Name, item.Price, item.Quantity, item.Image)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order item %s: %w", item.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, 'storefront', NOW())
	`, orderID, order.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order status log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return orderID, nil
}

func (or *OrderRepository) ListOrders(ctx context.Context) ([]dao.Order, error) {
	rows, err := or.db.QueryContext(ctx, `
		SELECT id, order_number, vertical, status, payment_method, payment_ref,
		       subtotal, handling_fee, delivery_fee, grand_total,
		       first_name, last_name, gender, address, city, state, pin_code, phone,
		       created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []dao.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (or *OrderRepository) GetOrder(ctx context.Context, id int) (dao.Order, error) {
	row := or.db.QueryRowContext(ctx, `
		SELECT id, order_number, vertical, status, payment_method, payment_ref,
		       subtotal, handling_fee, delivery_fee, grand_total,
		       first_name, last_name, gender, address, city, state, pin_code, phone,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dao.Order{}, ErrNotFound
	}
	if err != nil {
		return dao.Order{}, err
	}

	items, err := or.db.QueryContext(ctx, `
		SELECT id, order_id, item_id, name, price, quantity, COALESCE(image, '')
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to load order items: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var it dao.OrderItem
		if err := items.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.Price, &it.Quantity, &it.Image); err != nil {
			return dao.Order{}, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, items.Err()
}

func (or *OrderRepository) UpdateStatus(ctx context.Context, id int, status, changedBy string) error {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, NOW())
	`, id, status, changedBy)
	if err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (or *OrderRepository) GetStatusLog(ctx context.Context, id int) ([]dao.StatusEvent, error) {
	rows, err := or.db.QueryContext(ctx, `
		SELECT status, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load status log: %w", err)
	}
	defer rows.Close()

	var out []dao.StatusEvent
	for rows.Next() {
		var ev dao.StatusEvent
		if err := rows.Scan(&ev.Status, &ev.ChangedBy, &ev.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (dao.Order, error) {
	var o dao.Order
	var vertical string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &vertical, &o.Status, &o.PaymentMethod, &o.PaymentRef,
		&o.Subtotal, &o.HandlingFee, &o.DeliveryFee, &o.GrandTotal,
		&o.FirstName, &o.LastName, &o.Gender, &o.Address, &o.City, &o.State, &o.PinCode, &o.Phone,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return dao.Order{}, err
	}
	o.Vertical = cart.Vertical(vertical)
	return o, nil
}
