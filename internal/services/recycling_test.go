package services

import (
	"context"
	"encoding/json"
	"testing"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecordImpact(t *testing.T) {
	tests := []struct {
		material     string
		weight       json.Number
		wantMaterial string
		wantImpact   float64
	}{
		{"Plastic", "10", "plastic", 20.0},
		{"paper", "2", "paper", 3.0},
		{"GLASS", "4", "glass", 2.0},
		{"metal", "1.5", "metal", 4.5},
		{"electronic", "0.5", "electronic", 2.0},
		{"textiles", "4", "textiles", 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			svc := NewRecyclingService(store.NewMemory(), nil)

			resp, err := svc.CreateRecord(context.Background(), 1, models.CreateRecyclingRecordRequest{
				Material: tt.material,
				Weight:   tt.weight,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMaterial, resp.Material)
			assert.InDelta(t, tt.wantImpact, resp.EnvironmentalImpact, 1e-9)
			assert.Equal(t, models.DefaultRecyclingLocation, resp.Location)
		})
	}
}

func TestCreateRecordKeepsLocationAndPublishes(t *testing.T) {
	events := &recordingPublisher{}
	svc := NewRecyclingService(store.NewMemory(), events)

	resp, err := svc.CreateRecord(context.Background(), 1, models.CreateRecyclingRecordRequest{
		Material: "paper",
		Weight:   "3.5",
		Location: strPtr("Westlands Depot"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Westlands Depot", resp.Location)
	assert.Equal(t, 3.5, resp.Weight)
	assert.Equal(t, []string{EventRecyclingRecorded}, events.types())
}

func TestCreateRecordInvalidInput(t *testing.T) {
	s := store.NewMemory()
	svc := NewRecyclingService(s, nil)

	tests := []struct {
		name string
		req  models.CreateRecyclingRecordRequest
	}{
		{"missing material", models.CreateRecyclingRecordRequest{Weight: "1"}},
		{"missing weight", models.CreateRecyclingRecordRequest{Material: "paper"}},
		{"zero weight", models.CreateRecyclingRecordRequest{Material: "paper", Weight: "0"}},
		{"negative weight", models.CreateRecyclingRecordRequest{Material: "paper", Weight: "-2"}},
		{"not a number", models.CreateRecyclingRecordRequest{Material: "paper", Weight: "heavy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecord(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	records, err := s.ListRecyclingRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecyclingStats(t *testing.T) {
	ctx := context.Background()
	svc := NewRecyclingService(store.NewMemory(), nil)

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.RecyclingStats{}, empty)

	for _, req := range []models.CreateRecyclingRecordRequest{
		{Material: "metal", Weight: "10.333"},
		{Material: "plastic", Weight: "5"},
	} {
		_, err := svc.CreateRecord(ctx, 1, req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.33, stats.TotalWeight)
	assert.Equal(t, 41.0, stats.CarbonSaved)
	assert.Equal(t, 0, stats.TreesEquivalent)

	_, err = svc.CreateRecord(ctx, 1, models.CreateRecyclingRecordRequest{Material: "electronic", Weight: "10"})
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 81.0, stats.CarbonSaved)
	assert.Equal(t, 1, stats.TreesEquivalent)
}

func TestListRecordsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewRecyclingService(store.NewMemory(), nil)

	first, err := svc.CreateRecord(ctx, 1, models.CreateRecyclingRecordRequest{Material: "paper", Weight: "1"})
	require.NoError(t, err)
	second, err := svc.CreateRecord(ctx, 1, models.CreateRecyclingRecordRequest{Material: "glass", Weight: "1"})
	require.NoError(t, err)

	records, err := svc.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}
