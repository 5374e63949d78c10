package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"go.uber.org/zap"
)

const pushTimeout = 10 * time.Second

// StatusPresenter maps a bin's stored status to the status reported to
// clients. It must never write to the store.
type StatusPresenter func(stored string) string

var jitterStatuses = []string{models.BinStatusEmpty, models.BinStatusHalf, models.BinStatusFull}

// JitterPresenter reports a uniformly random status among empty, half and
// full with the given probability, and the stored status otherwise.
func JitterPresenter(probability float64, src rand.Source) StatusPresenter {
	if probability <= 0 {
		return nil
	}

	rng := rand.New(src)
	var mu sync.Mutex
	return func(stored string) string {
		mu.Lock()
		defer mu.Unlock()
		if rng.Float64() < probability {
			return jitterStatuses[rng.Intn(len(jitterStatuses))]
		}
		return stored
	}
}

type WasteService struct {
	store     store.Store
	presenter StatusPresenter
	events    EventPublisher
	push      PushNotifier
	now       func() time.Time
}

// NewWasteService wires the waste operations. presenter, events and push
// may be nil.
func NewWasteService(s store.Store, presenter StatusPresenter, events EventPublisher, push PushNotifier) *WasteService {
	if events == nil {
		events = nopPublisher{}
	}
	if push == nil {
		push = nopNotifier{}
	}
	return &WasteService{
		store:     s,
		presenter: presenter,
		events:    events,
		push:      push,
		now:       time.Now,
	}
}

func (w *WasteService) ListBins(ctx context.Context) ([]models.BinResponse, error) {
	bins, err := w.store.ListBins(ctx)
	if err != nil {
		return nil, err
	}

	// lastUpdated is the time of this reading, matching the simulated status.
	stamp := models.FormatTime(w.now())
	resp := make([]models.BinResponse, len(bins))
	for i := range bins {
		resp[i] = bins[i].ToBinResponse()
		resp[i].LastUpdated = stamp
		if w.presenter != nil {
			resp[i].Status = w.presenter(bins[i].Status)
		}
	}
	return resp, nil
}

func (w *WasteService) ListCollections(ctx context.Context) ([]models.CollectionResponse, error) {
	collections, err := w.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]models.CollectionResponse, len(collections))
	for i := range collections {
		resp[i] = collections[i].ToCollectionResponse()
	}
	return resp, nil
}

var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseScheduledDate accepts RFC 3339 and the datetime-local formats sent by
// browser date pickers. Values without a zone are taken as UTC.
func parseScheduledDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidInput("scheduledDate %q is not a valid date", value)
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// CreateCollection schedules a pickup for userID. The bin is the first bin
// of the requested waste type, created at the fallback position when none
// exists; lookup and insert happen atomically.
func (w *WasteService) CreateCollection(ctx context.Context, userID int64, req models.CreateCollectionRequest) (*models.CollectionResponse, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, invalidInput("Location is required")
	}

	wasteType := strings.TrimSpace(req.WasteType)
	if wasteType == "" {
		wasteType = models.DefaultWasteType
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, invalidInput("Priority must be one of low, medium, high")
	}

	scheduled, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	c := &models.Collection{
		UserID:        userID,
		Status:        models.CollectionStatusPending,
		WasteType:     wasteType,
		Location:      location,
		Priority:      priority,
		ScheduledDate: scheduled,
		CreatedAt:     w.now().UTC(),
	}
	if err := w.store.ScheduleCollection(ctx, c, models.FallbackBin(wasteType)); err != nil {
		return nil, err
	}

	zap.S().Infow("🗓️ collection scheduled",
		"collection_id", c.ID,
		"user_id", userID,
		"bin_id", c.BinID,
		"waste_type", wasteType,
	)

	resp := c.ToCollectionResponse()
	w.events.Publish(EventCollectionScheduled, resp)
	return &resp, nil
}

// UpdateCollectionStatus overwrites the status of collection id. Any status
// string is accepted. Moving to completed stamps completed_date.
func (w *WasteService) UpdateCollectionStatus(ctx context.Context, id int64, req models.UpdateCollectionRequest) (*models.CollectionResponse, error) {
	if req.Status == nil || strings.TrimSpace(*req.Status) == "" {
		return nil, invalidInput("Status is required")
	}
	if req.Weight != nil && *req.Weight < 0 {
		return nil, invalidInput("Weight must not be negative")
	}

	upd := store.CollectionUpdate{
		Status: *req.Status,
		Weight: req.Weight,
	}
	if upd.Status == models.CollectionStatusCompleted {
		completed := w.now().UTC()
		upd.CompletedDate = &completed
	}

	if err := w.store.UpdateCollection(ctx, id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, CodedError(ErrNotFound, "Collection not found")
		}
		return nil, err
	}

	c, err := w.store.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("🔄 collection updated", "collection_id", id, "status", c.Status)

	resp := c.ToCollectionResponse()
	w.events.Publish(EventCollectionUpdated, resp)

	go func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		w.push.CollectionStatusChanged(pushCtx, c)
	}()

	return &resp, nil
}
