package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateSessionToken(ctx context.Context, id int64, token *string) error
	UpdateResetToken(ctx context.Context, id int64, token *string, expiry *time.Time) error
	UpdateRole(ctx context.Context, id int64, role domain.Role, directorate *string) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetBySessionToken(ctx context.Context, token string) (*domain.Account, error)
	GetByResetToken(ctx context.Context, token string) (*domain.Account, error)
	ListAll(ctx context.Context) ([]domain.Account, error)
	ListByRoles(ctx context.Context, roles []string, directorate *string, excludeID int64) ([]domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, username, password, email, role, directorate, token, reset_token, reset_expiry, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Email,
		&a.Role,
		&a.Directorate,
		&a.SessionToken,
		&a.ResetToken,
		&a.ResetExpiry,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO users (username, password, email, role, directorate)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Email,
		account.Role,
		account.Directorate,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE users SET username=$1, email=$2, directorate=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		account.Username,
		account.Email,
		account.Directorate,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdateSessionToken(ctx context.Context, id int64, token *string) error {
	const query = `UPDATE users SET token=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdateResetToken(ctx context.Context, id int64, token *string, expiry *time.Time) error {
	const query = `UPDATE users SET reset_token=$1, reset_expiry=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, token, expiry, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdateRole(ctx context.Context, id int64, role domain.Role, directorate *string) error {
	const query = `UPDATE users SET role=$1, directorate=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, role, directorate, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE username=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, username))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE email=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) GetBySessionToken(ctx context.Context, token string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE token=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, token))
}

func (r *accountRepository) GetByResetToken(ctx context.Context, token string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE reset_token=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, token))
}

func (r *accountRepository) ListAll(ctx context.Context) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListByRoles filters accounts by role membership, optionally narrowed
// to a directorate and excluding the caller.
func (r *accountRepository) ListByRoles(ctx context.Context, roles []string, directorate *string, excludeID int64) ([]domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM users
        WHERE role = ANY($1)
          AND ($2::text IS NULL OR directorate = $2)
          AND ($3::bigint = 0 OR id <> $3)
        ORDER BY username`

	rows, err := r.pool.Query(ctx, query, roles, directorate, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}
