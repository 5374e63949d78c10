package services

import (
	"context"
	"strings"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"go.uber.org/zap"
)

// feed is the fixed notification list served to every client.
var feed = []models.Notification{
	{
		ID:      1,
		Title:   "Collection Completed",
		Message: "Your waste collection has been completed successfully.",
		Type:    "success",
		Time:    "10:30",
	},
	{
		ID:      2,
		Title:   "Bin Full Alert",
		Message: "Bin #123 is full and needs collection.",
		Type:    "warning",
		Time:    "09:15",
	},
}

type DashboardService struct {
	store store.Store
}

func NewDashboardService(s store.Store) *DashboardService {
	return &DashboardService{store: s}
}

// Stats aggregates bin, collection and recycling counts. The figures are
// store-wide; userID only identifies the caller.
func (d *DashboardService) Stats(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	totalBins, err := d.store.CountBins(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, 3)
	for _, status := range []string{
		models.CollectionStatusCompleted,
		models.CollectionStatusPending,
		models.CollectionStatusInProgress,
	} {
		n, err := d.store.CountCollectionsByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}

	totals, err := d.store.RecyclingTotals(ctx)
	if err != nil {
		return nil, err
	}

	drivers, err := d.store.ListDriverSummaries(ctx)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, drv := range drivers {
		if drv.CollectionCount > 0 {
			active++
		}
	}

	zap.S().Debugw("dashboard stats computed", "user_id", userID, "bins", totalBins)

	return &models.DashboardStats{
		TotalBins:          totalBins,
		Completed:          counts[models.CollectionStatusCompleted],
		Pending:            counts[models.CollectionStatusPending],
		InProgress:         counts[models.CollectionStatusInProgress],
		RecycledWeight:     round(totals.Weight, 1),
		CollectedToday:     counts[models.CollectionStatusCompleted],
		PendingCollections: counts[models.CollectionStatusPending],
		ActiveDrivers:      active,
	}, nil
}

func (d *DashboardService) Notifications() []models.Notification {
	out := make([]models.Notification, len(feed))
	copy(out, feed)
	return out
}

func (d *DashboardService) ListDrivers(ctx context.Context) ([]models.DriverResponse, error) {
	summaries, err := d.store.ListDriverSummaries(ctx)
	if err != nil {
		return nil, err
	}

	drivers := make([]models.DriverResponse, len(summaries))
	for i, s := range summaries {
		status := models.DriverStatusAvailable
		if s.CollectionCount > 0 {
			status = models.DriverStatusActive
		}
		drivers[i] = models.DriverResponse{
			ID:                s.ID,
			Name:              s.Name,
			Phone:             s.Phone,
			Email:             s.Email,
			ActiveCollections: s.CollectionCount,
			TotalCollected:    round(s.CompletedWeight, 2),
			Status:            status,
		}
	}
	return drivers, nil
}

func validDeviceType(t string) bool {
	switch t {
	case models.DeviceTypeIOS, models.DeviceTypeAndroid, models.DeviceTypeWeb:
		return true
	}
	return false
}

// RegisterDevice stores a push token for userID, moving it from any
// previous owner.
func (d *DashboardService) RegisterDevice(ctx context.Context, userID int64, req models.RegisterDeviceRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return invalidInput("Token is required")
	}

	deviceType := strings.ToLower(strings.TrimSpace(req.DeviceType))
	if !validDeviceType(deviceType) {
		return invalidInput("deviceType must be one of ios, android, web")
	}

	dt := &models.DeviceToken{
		UserID:     userID,
		Token:      token,
		DeviceType: deviceType,
	}
	if err := d.store.SaveDeviceToken(ctx, dt); err != nil {
		return err
	}

	zap.S().Infow("📱 device registered", "user_id", userID, "device_type", deviceType)
	return nil
}
