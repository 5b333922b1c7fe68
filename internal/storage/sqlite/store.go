// Package sqlite is a pure-Go SQLite backend for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ storage.Store = (*Store)(nil)

// Store wraps a sql.DB connection to a SQLite database.
type Store struct {
	conn *sql.DB
}

// NewStore opens the database at path (":memory:" is allowed) and runs migrations.
func NewStore(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps an in-memory database shared across calls
	// and serializes writers.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			salary REAL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			date DATETIME NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS expenses_user_id_idx ON expenses (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user. Duplicate usernames or emails surface as
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, salary, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Username, user.Email, user.PasswordHash, nullFloat(user.Salary), time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.FindByID(ctx, id)
}

// FindByID retrieves a user by ID.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, salary, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// FindByUsername retrieves a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, salary, created_at FROM users WHERE username = ?",
		username,
	)
	return scanUser(row)
}

// FindByEmail retrieves a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, salary, created_at FROM users WHERE email = ?",
		email,
	)
	return scanUser(row)
}

// UpdateSalary overwrites the user's salary; nil clears it.
func (s *Store) UpdateSalary(ctx context.Context, userID int64, salary *float64) error {
	result, err := s.conn.ExecContext(ctx, "UPDATE users SET salary = ? WHERE id = ?", nullFloat(salary), userID)
	if err != nil {
		return fmt.Errorf("update salary: %w", err)
	}
	return requireAffected(result)
}

// DeleteUser removes the user's expenses and then the user in one transaction.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete user expenses: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateExpense inserts an expense stamped with the current time.
func (s *Store) CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	result, err := s.conn.ExecContext(ctx,
		"INSERT INTO expenses (description, amount, category, date, user_id) VALUES (?, ?, ?, ?, ?)",
		expense.Description, expense.Amount, expense.Category, time.Now().UTC(), expense.UserID,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Expense{}, err
	}
	return s.GetExpense(ctx, expense.UserID, id)
}

// ListExpenses returns the user's expenses oldest first.
func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, description, amount, category, date, user_id FROM expenses WHERE user_id = ? ORDER BY date ASC, id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetExpense retrieves one expense owned by userID.
func (s *Store) GetExpense(ctx context.Context, userID, id int64) (models.Expense, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, description, amount, category, date, user_id FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return scanExpense(row)
}

// DeleteExpense removes one expense owned by userID.
func (s *Store) DeleteExpense(ctx context.Context, userID, id int64) error {
	result, err := s.conn.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var salary sql.NullFloat64
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &salary, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	if salary.Valid {
		u.Salary = &salary.Float64
	}
	return u, nil
}

func scanExpense(row scanner) (models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date, &e.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Expense{}, storage.ErrNotFound
		}
		return models.Expense{}, err
	}
	e.Date = e.Date.UTC()
	return e, nil
}

// dsn enables foreign keys on every connection the pool opens, not only on
// the one that ran the migrations.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
