package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type fakeAccountRepo struct {
	accounts map[int64]*domain.Account
	nextID   int64
}

func newFakeAccountRepo(accounts ...*domain.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: make(map[int64]*domain.Account), nextID: 1}
	for _, a := range accounts {
		if a.ID >= repo.nextID {
			repo.nextID = a.ID + 1
		}
		repo.accounts[a.ID] = a
	}
	return repo
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	account.ID = f.nextID
	f.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := f.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.PasswordHash = passwordHash
	return nil
}

func (f *fakeAccountRepo) UpdateSessionToken(_ context.Context, id int64, token *string) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.SessionToken = token
	return nil
}

func (f *fakeAccountRepo) UpdateResetToken(_ context.Context, id int64, token *string, expiry *time.Time) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.ResetToken = token
	account.ResetExpiry = expiry
	return nil
}

func (f *fakeAccountRepo) UpdateRole(_ context.Context, id int64, role domain.Role, directorate *string) error {
	account, ok := f.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Role = role
	account.Directorate = directorate
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetBySessionToken(_ context.Context, token string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.SessionToken != nil && *account.SessionToken == token {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByResetToken(_ context.Context, token string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.ResetToken != nil && *account.ResetToken == token {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) ListAll(_ context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(f.accounts))
	for _, account := range f.accounts {
		out = append(out, *account)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListByRoles(_ context.Context, roles []string, directorate *string, excludeID int64) ([]domain.Account, error) {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	var out []domain.Account
	for _, account := range f.accounts {
		if !roleSet[string(account.Role)] {
			continue
		}
		if directorate != nil && (account.Directorate == nil || *account.Directorate != *directorate) {
			continue
		}
		if excludeID != 0 && account.ID == excludeID {
			continue
		}
		out = append(out, *account)
	}
	return out, nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.accounts, id)
	return nil
}

type fakeTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket), nextID: 1}
	for _, t := range tickets {
		if t.ID >= repo.nextID {
			repo.nextID = t.ID + 1
		}
		repo.tickets[t.ID] = t
	}
	return repo
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = f.nextID
	f.nextID++
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListAll(_ context.Context, filters repository.TicketFilters) ([]domain.Ticket, error) {
	return f.filter(filters, func(*domain.Ticket) bool { return true }), nil
}

func (f *fakeTicketRepo) ListBySubmitter(_ context.Context, userID int64, filters repository.TicketFilters) ([]domain.Ticket, error) {
	return f.filter(filters, func(t *domain.Ticket) bool { return t.SubmittedBy == userID }), nil
}

func (f *fakeTicketRepo) ListSubmittedTo(_ context.Context, userID int64, filters repository.TicketFilters) ([]domain.Ticket, error) {
	return f.filter(filters, func(t *domain.Ticket) bool {
		return t.SubmittedTo != nil && *t.SubmittedTo == userID
	}), nil
}

func (f *fakeTicketRepo) ListAssignedTo(_ context.Context, userID int64, filters repository.TicketFilters) ([]domain.Ticket, error) {
	return f.filter(filters, func(t *domain.Ticket) bool {
		return t.AssignedTo != nil && *t.AssignedTo == userID
	}), nil
}

func (f *fakeTicketRepo) filter(filters repository.TicketFilters, scope func(*domain.Ticket) bool) []domain.Ticket {
	var out []domain.Ticket
	for _, t := range f.tickets {
		if !scope(t) {
			continue
		}
		if filters.Status != "" && string(t.Status) != filters.Status {
			continue
		}
		if filters.Priority != "" && string(t.Priority) != filters.Priority {
			continue
		}
		if filters.Category != "" && t.Category != filters.Category {
			continue
		}
		if filters.SubmittedBy != 0 && t.SubmittedBy != filters.SubmittedBy {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func (f *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

type fakeNotificationRepo struct {
	notifications map[int64]*domain.Notification
	nextID        int64
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[int64]*domain.Notification), nextID: 1}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if f.failCreate {
		return pgx.ErrTxClosed
	}
	notification.ID = f.nextID
	f.nextID++
	notification.CreatedAt = time.Now()
	copied := *notification
	f.notifications[notification.ID] = &copied
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	notification, ok := f.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *notification
	return &copied, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id int64) error {
	notification, ok := f.notifications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	notification.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.notifications[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.notifications, id)
	return nil
}

// captureDispatcher records published events without invoking handlers.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) lastEvent() *events.Event {
	if len(d.published) == 0 {
		return nil
	}
	return &d.published[len(d.published)-1]
}

// fakeDirectoryRepo is an in-memory repository.DirectoryRepository.
type fakeDirectoryRepo struct {
	roles        []domain.RoleRecord
	directorates []domain.Directorate
	nextID       int64
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{nextID: 1}
}

func (f *fakeDirectoryRepo) ListRoles(_ context.Context) ([]domain.RoleRecord, error) {
	return append([]domain.RoleRecord(nil), f.roles...), nil
}

func (f *fakeDirectoryRepo) CreateRole(_ context.Context, record *domain.RoleRecord) error {
	record.ID = f.nextID
	f.nextID++
	f.roles = append(f.roles, *record)
	return nil
}

func (f *fakeDirectoryRepo) ListDirectorates(_ context.Context) ([]domain.Directorate, error) {
	return append([]domain.Directorate(nil), f.directorates...), nil
}

func (f *fakeDirectoryRepo) CreateDirectorate(_ context.Context, record *domain.Directorate) error {
	record.ID = f.nextID
	f.nextID++
	f.directorates = append(f.directorates, *record)
	return nil
}
