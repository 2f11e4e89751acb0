package service

import (
	"context"
	"testing"

	"party-invites/core/database/dbtest"
	"party-invites/core/errors"
	"party-invites/core/params"
	"party-invites/modules/notification/entity"
	"party-invites/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*NotificationService, uuid.UUID) {
	t.Helper()
	db := dbtest.New(t)
	return NewNotificationService(repository.NewNotificationRepository(db)), dbtest.SeedUser(t, db, "host@x.com")
}

func TestNotifyRSVPReceived(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()
	partyID, guestID := uuid.New(), uuid.New()

	require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, partyID, guestID, "Sam", "YES", 2))

	page, appErr := svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{}, params.QueryParams{PageNumber: 1, PageSize: 10})
	require.Nil(t, appErr)
	require.Len(t, page.Items, 1)

	n := page.Items[0]
	assert.Equal(t, entity.NotificationRSVPReceived, n.Type)
	assert.Equal(t, "Sam answered YES", n.Message)
	assert.False(t, n.IsRead)
	assert.Equal(t, partyID.String(), n.Data["party_id"])
	assert.Equal(t, guestID.String(), n.Data["guest_id"])
	assert.EqualValues(t, 2, n.Data["children_count"])
}

func TestNotifyRemindersSentMessage(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.NotifyRemindersSent(ctx, userID, uuid.New(), "ONE_DAY", 3, 1))

	page, appErr := svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{}, params.QueryParams{PageNumber: 1, PageSize: 10})
	require.Nil(t, appErr)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "3 reminder emails sent, 1 failed", page.Items[0].Message)
	assert.Equal(t, "ONE_DAY", page.Items[0].Data["checkpoint"])
}

func TestMarkAsRead(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, uuid.New(), uuid.New(), "Guest", "MAYBE", 0))
	}

	count, appErr := svc.CountUnread(ctx, userID)
	require.Nil(t, appErr)
	assert.Equal(t, 3, count)

	page, appErr := svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{}, params.QueryParams{PageNumber: 1, PageSize: 2})
	require.Nil(t, appErr)
	assert.Equal(t, 3, page.TotalItems)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages())

	require.Nil(t, svc.MarkAsRead(ctx, userID, []string{page.Items[0].ID.String()}))
	count, _ = svc.CountUnread(ctx, userID)
	assert.Equal(t, 2, count)

	require.Nil(t, svc.MarkAsRead(ctx, uuid.New(), []string{page.Items[1].ID.String()}), "other users' ids are ignored")
	count, _ = svc.CountUnread(ctx, userID)
	assert.Equal(t, 2, count)

	appErr = svc.MarkAsRead(ctx, userID, []string{"nope"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	require.Nil(t, svc.MarkAllAsRead(ctx, userID))
	count, _ = svc.CountUnread(ctx, userID)
	assert.Zero(t, count)
}

func TestGetMyNotificationsFilters(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()
	page := params.QueryParams{PageNumber: 1, PageSize: 10}

	require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, uuid.New(), uuid.New(), "Sam", "YES", 1))
	require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, uuid.New(), uuid.New(), "Kim", "NO", 0))
	require.NoError(t, svc.NotifyRemindersSent(ctx, userID, uuid.New(), "SEVEN_DAYS", 4, 0))

	rsvps, appErr := svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{Type: entity.NotificationRSVPReceived}, page)
	require.Nil(t, appErr)
	assert.Equal(t, 2, rsvps.TotalItems)
	for _, n := range rsvps.Items {
		assert.Equal(t, entity.NotificationRSVPReceived, n.Type)
	}

	require.Nil(t, svc.MarkAsRead(ctx, userID, []string{rsvps.Items[0].ID.String()}))

	unread, appErr := svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{Type: entity.NotificationRSVPReceived, UnreadOnly: true}, page)
	require.Nil(t, appErr)
	require.Len(t, unread.Items, 1)
	assert.Equal(t, rsvps.Items[1].ID, unread.Items[0].ID)

	_, appErr = svc.GetMyNotifications(ctx, userID, entity.NotificationFilter{Type: "party_cancelled"}, page)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestUnreadByType(t *testing.T) {
	db := dbtest.New(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db))
	userID := dbtest.SeedUser(t, db, "host@x.com")
	other := dbtest.SeedUser(t, db, "other@x.com")
	ctx := context.Background()

	byType, appErr := svc.UnreadByType(ctx, userID)
	require.Nil(t, appErr)
	assert.Equal(t, map[entity.NotificationType]int{
		entity.NotificationRSVPReceived:  0,
		entity.NotificationRemindersSent: 0,
	}, byType)

	require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, uuid.New(), uuid.New(), "Sam", "YES", 1))
	require.NoError(t, svc.NotifyRSVPReceived(ctx, userID, uuid.New(), uuid.New(), "Kim", "MAYBE", 0))
	require.NoError(t, svc.NotifyRemindersSent(ctx, userID, uuid.New(), "TWO_DAYS", 2, 0))
	require.NoError(t, svc.NotifyRSVPReceived(ctx, other, uuid.New(), uuid.New(), "Other", "YES", 0))

	byType, appErr = svc.UnreadByType(ctx, userID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, byType[entity.NotificationRSVPReceived])
	assert.Equal(t, 1, byType[entity.NotificationRemindersSent])

	total, appErr := svc.CountUnread(ctx, userID)
	require.Nil(t, appErr)
	assert.Equal(t, 3, total)
}
