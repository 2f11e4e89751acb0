package repository

import (
	"context"
	"strings"
	"time"

	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/core/params"
	"party-invites/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCounts(ctx context.Context, userID uuid.UUID) (map[entity.NotificationType]int, error)
}

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, is_read, created_at, updated_at)
		VALUES (:id, :user_id, :type, :title, :message, :data, :is_read, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error", "user_id", notification.UserID, "type", notification.Type, "error", err)
		return err
	}
	return nil
}

func filterClause(userID uuid.UUID, filter entity.NotificationFilter) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.UnreadOnly {
		conds = append(conds, "is_read = FALSE")
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List pages through a host's inbox, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	where, args := filterClause(userID, filter)

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM notifications`+where), args...); err != nil {
		logger.Error("NotificationRepository:List:Count:Error", "user_id", userID, "error", err)
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT id, user_id, type, title, message, data, is_read, created_at, updated_at
		FROM notifications` + where + `
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`)
	items := []entity.Notification{}
	if err := r.db.SelectContext(ctx, &items, query, append(args, params.PageSize, params.Offset())...); err != nil {
		logger.Error("NotificationRepository:List:Select:Error", "user_id", userID, "error", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      items,
		TotalItems: total,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

// MarkAsRead ignores ids that belong to other users.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE user_id = ? AND id IN (?)`,
		time.Now().UTC(), userID, ids)
	if err != nil {
		return err
	}
	if err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := r.db.Rebind(`UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE user_id = ? AND is_read = FALSE`)
	if err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// UnreadCounts groups a host's unread notifications by type.
func (r *NotificationRepository) UnreadCounts(ctx context.Context, userID uuid.UUID) (map[entity.NotificationType]int, error) {
	var rows []struct {
		Type  entity.NotificationType `db:"type"`
		Count int                     `db:"count"`
	}
	query := r.db.Rebind(`
		SELECT type, COUNT(*) AS count
		FROM notifications
		WHERE user_id = ? AND is_read = FALSE
		GROUP BY type
	`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		logger.Error("NotificationRepository:UnreadCounts:Error", "user_id", userID, "error", err)
		return nil, err
	}

	counts := make(map[entity.NotificationType]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
