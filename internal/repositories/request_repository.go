package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"errand-service/internal/models"
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrDuplicateRequest  = errors.New("active request already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// RequestRepository abstracts order-request persistence and drives the
// status lifecycle.
type RequestRepository interface {
	CreateRequest(ctx context.Context, orderID int, counterpartID int) (models.OrderRequest, error)
	GetRequest(ctx context.Context, requestID int) (models.OrderRequest, error)
	UpdateStatus(ctx context.Context, requestID int, next models.RequestStatus) (models.OrderRequest, error)
	DeleteRequest(ctx context.Context, requestID int) (bool, error)
	ListRequestsForUser(ctx context.Context, userID int, offset int, limit int) ([]models.OrderRequest, int, error)
}

// RequestRepo is a sqlx implementation of RequestRepository.
type RequestRepo struct {
	db *sqlx.DB
}

// NewRequestRepo constructs a RequestRepo.
func NewRequestRepo(db *sqlx.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

// CreateRequest opens a request in REQUESTING. The partial unique index on
// active rows turns a duplicate into ErrDuplicateRequest.
func (r *RequestRepo) CreateRequest(ctx context.Context, orderID int, counterpartID int) (models.OrderRequest, error) {
	var req models.OrderRequest
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO order_requests (order_id, counterpart_id, status) VALUES ($1, $2, $3)
         RETURNING id, order_id, counterpart_id, status, created_at, updated_at`,
		orderID, counterpartID, models.StatusRequesting,
	).Scan(&req.ID, &req.OrderID, &req.CounterpartID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if isUniqueViolation(err) {
		return models.OrderRequest{}, ErrDuplicateRequest
	}
	if err != nil {
		return models.OrderRequest{}, err
	}
	return req, nil
}

// GetRequest fetches a single request.
func (r *RequestRepo) GetRequest(ctx context.Context, requestID int) (models.OrderRequest, error) {
	var req models.OrderRequest
	err := r.db.GetContext(ctx, &req, `SELECT * FROM order_requests WHERE id=$1`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OrderRequest{}, ErrRequestNotFound
	}
	return req, err
}

// UpdateStatus advances the request to next if the transition table allows
// it. The row is locked for the duration so a losing racer re-checks against
// the committed status; a failed transition leaves the row untouched.
func (r *RequestRepo) UpdateStatus(ctx context.Context, requestID int, next models.RequestStatus) (models.OrderRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.OrderRequest{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var req models.OrderRequest
	err = tx.GetContext(ctx, &req, `SELECT * FROM order_requests WHERE id=$1 FOR UPDATE`, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrRequestNotFound
		return models.OrderRequest{}, err
	}
	if err != nil {
		return models.OrderRequest{}, err
	}

	if !req.Status.CanTransition(next) {
		err = ErrInvalidTransition
		return models.OrderRequest{}, err
	}

	if err = tx.GetContext(ctx, &req,
		`UPDATE order_requests SET status=$2, updated_at=NOW() WHERE id=$1
         RETURNING id, order_id, counterpart_id, status, created_at, updated_at`,
		requestID, next); err != nil {
		return models.OrderRequest{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.OrderRequest{}, err
	}
	return req, nil
}

// DeleteRequest removes a request and reports whether a row was removed.
func (r *RequestRepo) DeleteRequest(ctx context.Context, requestID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_requests WHERE id=$1`, requestID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRequestsForUser returns requests where the user is either the order
// owner or the counterpart, newest first, plus the total count.
func (r *RequestRepo) ListRequestsForUser(ctx context.Context, userID int, offset int, limit int) ([]models.OrderRequest, int, error) {
	cond := `FROM order_requests req INNER JOIN orders o ON o.id = req.order_id
        WHERE o.owner_id=$1 OR req.counterpart_id=$1`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) `+cond, userID); err != nil {
		return nil, 0, err
	}

	var reqs []models.OrderRequest
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT req.* `+cond+` ORDER BY req.created_at DESC, req.id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return reqs, total, err
}
