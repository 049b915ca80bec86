package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// NotificationService owns the per-user inbox and persists the drafts
// that ticket lifecycle events carry. Delivery is best effort: insert
// failures are logged and swallowed so they never surface to the
// transition that produced them.
type NotificationService struct {
	notifications repository.NotificationRepository
	accounts      repository.AccountRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, accounts repository.AccountRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		accounts:      accounts,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleLifecycleEvent)
}

func (n *NotificationService) handleLifecycleEvent(ctx context.Context, event events.Event) error {
	for _, draft := range event.Drafts {
		n.deliver(ctx, event, draft)
	}
	return nil
}

// deliver persists one draft, expanding admin broadcasts to every
// top-level admin account.
func (n *NotificationService) deliver(ctx context.Context, event events.Event, draft domain.NotificationDraft) {
	if !draft.ToAdmins {
		n.insert(ctx, event, draft.UserID, draft.Message)
		return
	}

	admins, err := n.accounts.ListByRoles(ctx, []string{string(domain.RoleAdmin)}, nil, 0)
	if err != nil {
		n.logger.Warn("admin broadcast lookup failed",
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
		return
	}
	for _, admin := range admins {
		n.insert(ctx, event, admin.ID, draft.Message)
	}
}

func (n *NotificationService) insert(ctx context.Context, event events.Event, userID int64, message string) {
	notification := &domain.Notification{UserID: userID, Message: message}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification insert failed",
			zap.Int64("user_id", userID),
			zap.Int64("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

// List returns the caller's notifications, optionally unread only.
func (n *NotificationService) List(ctx context.Context, caller *domain.Account, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := n.notifications.ListByUser(ctx, caller.ID, unreadOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notifications, nil
}

// Create inserts a notification into the caller's own inbox.
func (n *NotificationService) Create(ctx context.Context, caller *domain.Account, message string) (*domain.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}
	notification := &domain.Notification{UserID: caller.ID, Message: message}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return notification, nil
}

// MarkRead marks one of the caller's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, caller *domain.Account, id int64) error {
	notification, err := n.ownedNotification(ctx, caller, id)
	if err != nil {
		return err
	}
	return apperrors.MapError(n.notifications.MarkRead(ctx, notification.ID))
}

// MarkAllRead marks every unread notification of the caller as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, caller *domain.Account) error {
	return apperrors.MapError(n.notifications.MarkAllRead(ctx, caller.ID))
}

// Delete removes one of the caller's notifications.
func (n *NotificationService) Delete(ctx context.Context, caller *domain.Account, id int64) error {
	notification, err := n.ownedNotification(ctx, caller, id)
	if err != nil {
		return err
	}
	return apperrors.MapError(n.notifications.Delete(ctx, notification.ID))
}

func (n *NotificationService) ownedNotification(ctx context.Context, caller *domain.Account, id int64) (*domain.Notification, error) {
	notification, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	if !auth.Allowed(auth.ActionNotificationAccess, caller, auth.Resource{Notification: notification}) {
		return nil, apperrors.NewForbidden("not allowed to access this notification")
	}
	return notification, nil
}
