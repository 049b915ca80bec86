package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilters narrows ticket listings. Zero values mean "no filter".
type TicketFilters struct {
	Status      string
	Priority    string
	Category    string
	SubmittedBy int64
	Search      string
}

// TicketRepository defines persistence access for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListAll(ctx context.Context, filters TicketFilters) ([]domain.Ticket, error)
	ListBySubmitter(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error)
	ListSubmittedTo(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error)
	ListAssignedTo(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ticketSelect joins the three participant usernames so listings never
// need follow-up queries.
const ticketSelect = `
    SELECT t.id, t.subject, t.description, t.category, t.priority, t.status,
           t.submitted_by, t.submitted_to, t.assigned_to, t.solution,
           t.created_at, t.resolved_at, t.updated_at,
           sb.username, st.username, at.username
    FROM tickets t
    JOIN users sb ON sb.id = t.submitted_by
    LEFT JOIN users st ON st.id = t.submitted_to
    LEFT JOIN users at ON at.id = t.assigned_to`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.ID,
		&t.Subject,
		&t.Description,
		&t.Category,
		&t.Priority,
		&t.Status,
		&t.SubmittedBy,
		&t.SubmittedTo,
		&t.AssignedTo,
		&t.Solution,
		&t.CreatedAt,
		&t.ResolvedAt,
		&t.UpdatedAt,
		&t.SubmittedByName,
		&t.SubmittedToName,
		&t.AssignedToName,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (subject, description, category, priority, status, submitted_by, submitted_to, assigned_to)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.SubmittedBy,
		ticket.SubmittedTo,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets
        SET status=$1, assigned_to=$2, solution=$3, resolved_at=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.AssignedTo,
		ticket.Solution,
		ticket.ResolvedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListAll(ctx context.Context, filters TicketFilters) ([]domain.Ticket, error) {
	return r.list(ctx, filters, "", 0)
}

func (r *ticketRepository) ListBySubmitter(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error) {
	return r.list(ctx, filters, "t.submitted_by", userID)
}

func (r *ticketRepository) ListSubmittedTo(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error) {
	return r.list(ctx, filters, "t.submitted_to", userID)
}

func (r *ticketRepository) ListAssignedTo(ctx context.Context, userID int64, filters TicketFilters) ([]domain.Ticket, error) {
	return r.list(ctx, filters, "t.assigned_to", userID)
}

func (r *ticketRepository) list(ctx context.Context, filters TicketFilters, scopeColumn string, scopeID int64) ([]domain.Ticket, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if scopeColumn != "" {
		add(scopeColumn+" = $%d", scopeID)
	}
	if filters.Status != "" {
		add("t.status = $%d", filters.Status)
	}
	if filters.Priority != "" {
		add("t.priority = $%d", filters.Priority)
	}
	if filters.Category != "" {
		add("t.category = $%d", filters.Category)
	}
	if filters.SubmittedBy != 0 {
		add("t.submitted_by = $%d", filters.SubmittedBy)
	}
	if filters.Search != "" {
		add("(t.subject ILIKE $%d OR t.description ILIKE $%[1]d)", "%"+filters.Search+"%")
	}

	query := ticketSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
