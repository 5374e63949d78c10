package services

import (
	"context"
	"errors"
	"testing"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	messages []*messaging.MulticastMessage
	err      error
}

func (f *fakeSender) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.messages = append(f.messages, m)
	if f.err != nil {
		return nil, f.err
	}
	return &messaging.BatchResponse{SuccessCount: len(m.Tokens)}, nil
}

func TestCollectionStatusChangedPushesToOwnerDevices(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.SaveDeviceToken(ctx, &models.DeviceToken{UserID: 7, Token: "a", DeviceType: models.DeviceTypeIOS}))
	require.NoError(t, s.SaveDeviceToken(ctx, &models.DeviceToken{UserID: 7, Token: "b", DeviceType: models.DeviceTypeAndroid}))
	require.NoError(t, s.SaveDeviceToken(ctx, &models.DeviceToken{UserID: 8, Token: "c", DeviceType: models.DeviceTypeWeb}))

	sender := &fakeSender{}
	svc := &FCMService{client: sender, store: s}

	svc.CollectionStatusChanged(ctx, &models.Collection{
		ID:        12,
		UserID:    7,
		Status:    models.CollectionStatusCompleted,
		WasteType: "plastic",
		Location:  "Karen",
	})

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.ElementsMatch(t, []string{"a", "b"}, msg.Tokens)
	assert.Equal(t, "Collection Completed", msg.Notification.Title)
	assert.Equal(t, "Your plastic collection at Karen is now completed.", msg.Notification.Body)
	assert.Equal(t, map[string]string{
		"type":          EventCollectionUpdated,
		"collection_id": "12",
		"status":        models.CollectionStatusCompleted,
	}, msg.Data)
}

func TestCollectionStatusChangedWithoutDevices(t *testing.T) {
	sender := &fakeSender{}
	svc := &FCMService{client: sender, store: store.NewMemory()}

	svc.CollectionStatusChanged(context.Background(), &models.Collection{ID: 1, UserID: 3, Status: models.CollectionStatusPending})
	assert.Empty(t, sender.messages)
}

func TestSendMulticastWrapsError(t *testing.T) {
	boom := errors.New("unavailable")
	svc := &FCMService{client: &fakeSender{err: boom}, store: store.NewMemory()}

	err := svc.SendMulticast(context.Background(), []string{"a"}, "t", "b", nil)
	assert.ErrorIs(t, err, boom)
}

func TestNewFCMServiceFromBase64RejectsBadEncoding(t *testing.T) {
	_, err := NewFCMServiceFromBase64(context.Background(), store.NewMemory(), "%%%not-base64")
	assert.Error(t, err)
}

func TestStatusTitle(t *testing.T) {
	assert.Equal(t, "Collection In Progress", statusTitle(models.CollectionStatusInProgress))
	assert.Equal(t, "Collection Update", statusTitle("on_hold"))
}
