package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"errand-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CountActiveUsers(ctx context.Context, userIDs []int) (int, error)
	DeactivateUser(ctx context.Context, userID int, anonymizedEmail string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new account.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `INSERT INTO users (email, password_hash, name, gender, address, address_detail, contact_start, contact_end, payment_method, image_path)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Gender,
		user.Address, user.AddressDetail, user.ContactStart, user.ContactEnd,
		user.PaymentMethod, user.ImagePath,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail fetches a user by email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// CountActiveUsers counts how many of the given ids belong to active users.
func (r *UserRepo) CountActiveUsers(ctx context.Context, userIDs []int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE id = ANY($1) AND deactivated = FALSE`,
		pq.Array(userIDs))
	return count, err
}

// DeactivateUser flags the account inactive and anonymizes its email in the
// same statement, keeping the uniqueness constraint intact.
func (r *UserRepo) DeactivateUser(ctx context.Context, userID int, anonymizedEmail string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deactivated = TRUE, email = $2 WHERE id = $1 AND deactivated = FALSE`,
		userID, anonymizedEmail)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
