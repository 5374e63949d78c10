package services

import (
	"context"

	"takatrack-backend/internal/models"
)

// Event types sent to realtime subscribers.
const (
	EventCollectionScheduled = "collection_scheduled"
	EventCollectionUpdated   = "collection_updated"
	EventRecyclingRecorded   = "recycling_recorded"
)

// EventPublisher fans domain events out to connected clients. Publish must
// not block the caller.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// PushNotifier delivers a collection status change to the owner's devices.
type PushNotifier interface {
	CollectionStatusChanged(ctx context.Context, c *models.Collection)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

type nopNotifier struct{}

func (nopNotifier) CollectionStatusChanged(context.Context, *models.Collection) {}
