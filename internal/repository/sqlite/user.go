package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, name, email, phone, password_hash, profile_photo, created_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone, password_hash, profile_photo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, nullString(user.Phone), user.PasswordHash, user.ProfilePhoto, formatTime(now),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// Update writes name, email and phone, and the photo and password hash
// only when they are provided.
func (r *UserRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) error {
	var query strings.Builder
	query.WriteString("UPDATE users SET name = ?, email = ?, phone = ?")
	args := []any{update.Name, update.Email, nullString(update.Phone)}

	if update.ProfilePhoto != nil {
		query.WriteString(", profile_photo = ?")
		args = append(args, update.ProfilePhoto)
	}
	if update.PasswordHash != "" {
		query.WriteString(", password_hash = ?")
		args = append(args, update.PasswordHash)
	}
	query.WriteString(" WHERE id = ?")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query.String(), args...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(result)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("delete user todos: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		phone     sql.NullString
		createdAt string
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &phone, &user.PasswordHash, &user.ProfilePhoto, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Phone = phone.String
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if len(user.ProfilePhoto) == 0 {
		user.ProfilePhoto = nil
	}
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
