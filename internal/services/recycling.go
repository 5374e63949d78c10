package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"go.uber.org/zap"
)

// treesPerCarbonUnit converts carbon saved into trees planted.
const treesPerCarbonUnit = 0.02

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type RecyclingService struct {
	store  store.Store
	events EventPublisher
}

func NewRecyclingService(s store.Store, events EventPublisher) *RecyclingService {
	if events == nil {
		events = nopPublisher{}
	}
	return &RecyclingService{store: s, events: events}
}

func (r *RecyclingService) ListRecords(ctx context.Context) ([]models.RecyclingRecordResponse, error) {
	records, err := r.store.ListRecyclingRecords(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]models.RecyclingRecordResponse, len(records))
	for i := range records {
		resp[i] = records[i].ToRecyclingRecordResponse()
	}
	return resp, nil
}

func parseWeight(n string) (float64, bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, false
	}
	return w, true
}

func (r *RecyclingService) CreateRecord(ctx context.Context, userID int64, req models.CreateRecyclingRecordRequest) (*models.RecyclingRecordResponse, error) {
	material := strings.ToLower(strings.TrimSpace(req.Material))
	if material == "" || req.Weight == "" {
		return nil, invalidInput("Material and weight are required")
	}

	weight, ok := parseWeight(req.Weight.String())
	if !ok {
		return nil, invalidInput("Weight must be a positive number")
	}

	location := models.DefaultRecyclingLocation
	if req.Location != nil && strings.TrimSpace(*req.Location) != "" {
		location = *req.Location
	}

	record := &models.RecyclingRecord{
		UserID:              userID,
		Material:            material,
		Weight:              weight,
		Location:            location,
		EnvironmentalImpact: models.EnvironmentalImpact(material, weight),
	}
	if err := r.store.CreateRecyclingRecord(ctx, record); err != nil {
		return nil, err
	}

	zap.S().Infow("♻️ recycling recorded",
		"record_id", record.ID,
		"user_id", userID,
		"material", material,
		"weight", weight,
	)

	resp := record.ToRecyclingRecordResponse()
	r.events.Publish(EventRecyclingRecorded, resp)
	return &resp, nil
}

func (r *RecyclingService) Stats(ctx context.Context) (*models.RecyclingStats, error) {
	totals, err := r.store.RecyclingTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &models.RecyclingStats{
		TotalWeight:     round(totals.Weight, 2),
		CarbonSaved:     round(totals.Impact, 2),
		TreesEquivalent: int(math.Floor(totals.Impact * treesPerCarbonUnit)),
	}, nil
}
