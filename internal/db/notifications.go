package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateNotification stores a notification for a user
func (db *DB) CreateNotification(ctx context.Context, userID uuid.UUID, kind, subject, body string) (*Notification, error) {
	var n Notification
	err := db.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, kind, subject, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, kind, subject, body, read, created_at`,
		userID, kind, subject, body,
	).Scan(&n.ID, &n.UserID, &n.Kind, &n.Subject, &n.Body, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &n, nil
}

// ListNotifications retrieves a user's notifications, newest first
func (db *DB) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	if limit == 0 {
		limit = 50
	}
	query := `SELECT id, user_id, kind, subject, body, read, created_at
		FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := db.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Subject, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// ListNotificationsSince retrieves a user's notifications created after the
// given time, oldest first. Used by the SSE stream to poll for new rows.
func (db *DB) ListNotificationsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]Notification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, kind, subject, body, read, created_at
		 FROM notifications WHERE user_id = $1 AND created_at > $2 ORDER BY created_at ASC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications since: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Subject, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read
func (db *DB) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

// GetNotificationPreference reports whether a user has a kind enabled.
// Absent rows default to enabled.
func (db *DB) GetNotificationPreference(ctx context.Context, userID uuid.UUID, kind string) (bool, error) {
	var enabled bool
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT enabled FROM notification_preferences WHERE user_id = $1 AND kind = $2),
			TRUE)`,
		userID, kind,
	).Scan(&enabled)
	if err != nil {
		return false, fmt.Errorf("failed to get notification preference: %w", err)
	}
	return enabled, nil
}

// UpsertNotificationPreference sets a user's delivery toggle for one kind
func (db *DB) UpsertNotificationPreference(ctx context.Context, userID uuid.UUID, kind string, enabled bool) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO notification_preferences (user_id, kind, enabled)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, kind) DO UPDATE SET enabled = $3`,
		userID, kind, enabled,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification preference: %w", err)
	}
	return nil
}

// ListNotificationPreferences retrieves a user's stored preference rows
func (db *DB) ListNotificationPreferences(ctx context.Context, userID uuid.UUID) ([]NotificationPreference, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, kind, enabled
		 FROM notification_preferences WHERE user_id = $1 ORDER BY kind`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification preferences: %w", err)
	}
	defer rows.Close()

	var prefs []NotificationPreference
	for rows.Next() {
		var p NotificationPreference
		if err := rows.Scan(&p.UserID, &p.Kind, &p.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan notification preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, nil
}
