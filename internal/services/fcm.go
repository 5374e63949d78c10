package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// multicastSender is the part of *messaging.Client we use.
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client multicastSender
	store  store.Store
}

var _ PushNotifier = (*FCMService)(nil)

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(ctx context.Context, s store.Store, credentialsFile string) (*FCMService, error) {
	return newFCMService(ctx, s, option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials.
// Useful on hosts where the service account can only be passed through the environment.
func NewFCMServiceFromBase64(ctx context.Context, s store.Store, credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(ctx, s, option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(ctx context.Context, s store.Store, opt option.ClientOption) (*FCMService, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, store: s}, nil
}

func statusTitle(status string) string {
	switch status {
	case models.CollectionStatusCompleted:
		return "Collection Completed"
	case models.CollectionStatusInProgress:
		return "Collection In Progress"
	default:
		return "Collection Update"
	}
}

// CollectionStatusChanged pushes the new status of c to every device its
// owner registered. Failures are logged, never returned.
func (s *FCMService) CollectionStatusChanged(ctx context.Context, c *models.Collection) {
	log := zap.S()

	tokens, err := s.store.ListDeviceTokens(ctx, c.UserID)
	if err != nil {
		log.Errorw("❌ failed to load device tokens", "user_id", c.UserID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := fmt.Sprintf("Your %s collection at %s is now %s.", c.WasteType, c.Location, c.Status)
	data := map[string]string{
		"type":          EventCollectionUpdated,
		"collection_id": strconv.FormatInt(c.ID, 10),
		"status":        c.Status,
	}

	if err := s.SendMulticast(ctx, tokens, statusTitle(c.Status), body, data); err != nil {
		log.Errorw("❌ failed to push collection update", "collection_id", c.ID, "error", err)
	}
}

// SendMulticast sends the same message to multiple tokens
func (s *FCMService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	zap.S().Infow("✅ Multicast sent", "success", response.SuccessCount, "failures", response.FailureCount)
	return nil
}
