package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"errand-service/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows an order listing. Nil fields match everything.
// OwnerID must already be resolved to a concrete user id; the "me" sentinel
// never reaches this layer.
type OrderFilter struct {
	OwnerID  *int
	Role     *models.OrderRole
	Status   *models.RequestStatus
	Priority *models.OrderPriority
	Offset   int
	Limit    int
}

// OrderRepository abstracts order persistence.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem, images []models.OrderImage) (models.Order, error)
	GetOrder(ctx context.Context, orderID int) (models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int, error)
	DeleteOrder(ctx context.Context, orderID int) error
}

// OrderRepo is a sqlx implementation of OrderRepository.
type OrderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo constructs an OrderRepo.
func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder inserts the order with its line items and images atomically.
func (r *OrderRepo) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem, images []models.OrderImage) (models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Order{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `INSERT INTO orders (owner_id, role, title, message, priority, receive_start, receive_end, address, estimated_price, tip)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`
	if err = tx.QueryRowxContext(ctx, query,
		order.OwnerID, order.Role, order.Title, order.Message, order.Priority,
		order.ReceiveStart, order.ReceiveEnd, order.Address, order.EstimatedPrice, order.Tip,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return models.Order{}, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err = tx.QueryRowxContext(ctx,
			`INSERT INTO order_items (order_id, name, count, price) VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, items[i].Name, items[i].Count, items[i].Price,
		).Scan(&items[i].ID); err != nil {
			return models.Order{}, err
		}
	}

	for i := range images {
		images[i].OrderID = order.ID
		if err = tx.QueryRowxContext(ctx,
			`INSERT INTO order_images (order_id, filename, size, path) VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, images[i].Filename, images[i].Size, images[i].Path,
		).Scan(&images[i].ID); err != nil {
			return models.Order{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Order{}, err
	}
	order.Items = items
	order.Images = images
	return order, nil
}

// GetOrder fetches an order with its items and images.
func (r *OrderRepo) GetOrder(ctx context.Context, orderID int) (models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order, `SELECT * FROM orders WHERE id=$1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	if err := r.db.SelectContext(ctx, &order.Items,
		`SELECT * FROM order_items WHERE order_id=$1 ORDER BY id`, orderID); err != nil {
		return models.Order{}, err
	}
	if err := r.db.SelectContext(ctx, &order.Images,
		`SELECT * FROM order_images WHERE order_id=$1 ORDER BY id`, orderID); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ListOrders returns the filtered page plus the total count of the filtered
// set, independent of the pagination window.
func (r *OrderRepo) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		where = append(where, "o.owner_id = "+arg(*filter.OwnerID))
	}
	if filter.Role != nil {
		where = append(where, "o.role = "+arg(*filter.Role))
	}
	if filter.Priority != nil {
		where = append(where, "o.priority = "+arg(*filter.Priority))
	}
	if filter.Status != nil {
		where = append(where, "EXISTS (SELECT 1 FROM order_requests req WHERE req.order_id = o.id AND req.status = "+arg(*filter.Status)+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders o WHERE `+cond, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT o.* FROM orders o WHERE ` + cond +
		` ORDER BY o.created_at DESC, o.id DESC LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// DeleteOrder removes an order; items, images and requests cascade.
func (r *OrderRepo) DeleteOrder(ctx context.Context, orderID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrOrderNotFound
	}
	return nil
}
