package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NagawaEsther/live-well/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, date_of_birth, contact_number,
	address, is_doctor, specialty, medical_history, created_at, updated_at`

// UserRepository implements domain.UserRepository on top of sqlx. Email
// uniqueness is enforced by the unique index on LOWER(email).
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := sqlx.Named(`INSERT INTO users
		(name, email, password_hash, role, date_of_birth, contact_number, address,
		 is_doctor, specialty, medical_history, created_at, updated_at)
		VALUES (:name, :email, :password_hash, :role, :date_of_birth, :contact_number, :address,
		 :is_doctor, :specialty, :medical_history, :created_at, :updated_at)
		RETURNING id`, user)
	if err != nil {
		return fmt.Errorf("bind user insert: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, tx.Rebind(query), args...).Scan(&user.ID); err != nil {
			return userWriteError("insert user", err)
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.NamedExecContext(ctx, `UPDATE users SET
			name = :name, email = :email, password_hash = :password_hash, role = :role,
			date_of_birth = :date_of_birth, contact_number = :contact_number, address = :address,
			is_doctor = :is_doctor, specialty = :specialty, medical_history = :medical_history,
			updated_at = :updated_at
			WHERE id = :id`, user)
		if err != nil {
			return userWriteError("update user", err)
		}
		return requireRow(result, "users")
	})
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM users WHERE id = ?"), id)
		if err != nil {
			if classify(err) == foreignKeyViolation {
				return fmt.Errorf("%w: user %d is referenced by medical records", domain.ErrConflict, id)
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return requireRow(result, "users")
	})
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.GetContext(ctx, user, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func userWriteError(op string, err error) error {
	switch classify(err) {
	case uniqueViolation:
		return domain.ErrDuplicateEmail
	case noViolation:
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrIntegrity, op, err)
}
