package services

import (
	"context"
	"testing"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDrivers(t *testing.T, s store.Store) (busy, idle *models.User) {
	t.Helper()
	ctx := context.Background()

	busy = &models.User{Email: "busy@example.com", Name: "Busy", Phone: "0711", Role: models.RoleDriver}
	idle = &models.User{Email: "idle@example.com", Name: "Idle", Phone: "0722", Role: models.RoleDriver}
	resident := &models.User{Email: "res@example.com", Name: "Resident", Role: models.RoleResident}
	for _, u := range []*models.User{busy, idle, resident} {
		require.NoError(t, s.CreateUser(ctx, u))
	}
	return busy, idle
}

func TestDashboardStatsEmpty(t *testing.T) {
	svc := NewDashboardService(store.NewMemory())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{}, stats)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	busy, _ := seedDrivers(t, s)

	bin := &models.Bin{Type: "general", Status: models.BinStatusHalf}
	require.NoError(t, s.CreateBin(ctx, bin))
	for _, status := range []string{
		models.CollectionStatusCompleted,
		models.CollectionStatusCompleted,
		models.CollectionStatusPending,
		models.CollectionStatusInProgress,
	} {
		require.NoError(t, s.CreateCollection(ctx, &models.Collection{UserID: busy.ID, BinID: bin.ID, Status: status, Weight: 5}))
	}
	require.NoError(t, s.CreateRecyclingRecord(ctx, &models.RecyclingRecord{Material: "paper", Weight: 2.26, EnvironmentalImpact: 3.39}))
	require.NoError(t, s.CreateRecyclingRecord(ctx, &models.RecyclingRecord{Material: "glass", Weight: 1, EnvironmentalImpact: 0.5}))

	stats, err := NewDashboardService(s).Stats(ctx, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{
		TotalBins:          1,
		Completed:          2,
		Pending:            1,
		InProgress:         1,
		RecycledWeight:     3.3,
		CollectedToday:     2,
		PendingCollections: 1,
		ActiveDrivers:      1,
	}, stats)
}

func TestListDrivers(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	busy, idle := seedDrivers(t, s)

	require.NoError(t, s.CreateCollection(ctx, &models.Collection{UserID: busy.ID, Status: models.CollectionStatusCompleted, Weight: 12.346}))
	require.NoError(t, s.CreateCollection(ctx, &models.Collection{UserID: busy.ID, Status: models.CollectionStatusPending, Weight: 3}))

	drivers, err := NewDashboardService(s).ListDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	assert.Equal(t, models.DriverResponse{
		ID:                busy.ID,
		Name:              "Busy",
		Phone:             "0711",
		Email:             "busy@example.com",
		ActiveCollections: 2,
		TotalCollected:    12.35,
		Status:            models.DriverStatusActive,
	}, drivers[0])
	assert.Equal(t, idle.ID, drivers[1].ID)
	assert.Equal(t, models.DriverStatusAvailable, drivers[1].Status)
	assert.Zero(t, drivers[1].TotalCollected)
}

func TestNotificationsReturnsCopy(t *testing.T) {
	svc := NewDashboardService(store.NewMemory())

	first := svc.Notifications()
	require.Len(t, first, 2)
	assert.Equal(t, "Collection Completed", first[0].Title)
	assert.Equal(t, "warning", first[1].Type)

	first[0].Title = "changed"
	assert.Equal(t, "Collection Completed", svc.Notifications()[0].Title)
}

func TestRegisterDevice(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewDashboardService(s)

	require.NoError(t, svc.RegisterDevice(ctx, 4, models.RegisterDeviceRequest{Token: " tok-1 ", DeviceType: "Android"}))

	tokens, err := s.ListDeviceTokens(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, tokens)

	for name, req := range map[string]models.RegisterDeviceRequest{
		"missing token": {DeviceType: models.DeviceTypeIOS},
		"unknown type":  {Token: "tok-2", DeviceType: "fridge"},
		"missing type":  {Token: "tok-2"},
	} {
		t.Run(name, func(t *testing.T) {
			err := svc.RegisterDevice(ctx, 4, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
