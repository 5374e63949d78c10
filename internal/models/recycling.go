package models

import (
	"encoding/json"
	"time"
)

const DefaultRecyclingLocation = "Recycling Center"

type RecyclingRecord struct {
	ID                  int64     `json:"id" db:"id"`
	UserID              int64     `json:"user_id" db:"user_id"`
	Material            string    `json:"material" db:"material_type"`
	Weight              float64   `json:"weight" db:"weight"`
	Location            string    `json:"location" db:"location"`
	EnvironmentalImpact float64   `json:"environmental_impact" db:"environmental_impact"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
}

type RecyclingRecordResponse struct {
	ID                  int64   `json:"id"`
	Material            string  `json:"material"`
	Weight              float64 `json:"weight"`
	Location            string  `json:"location"`
	EnvironmentalImpact float64 `json:"environmental_impact"`
	CreatedAt           string  `json:"createdAt"`
}

// CreateRecyclingRecordRequest is the request body for POST /api/recycling/records.
// Weight accepts a JSON number or a numeric string (web forms send strings).
type CreateRecyclingRecordRequest struct {
	Material string      `json:"material"`
	Weight   json.Number `json:"weight"`
	Location *string     `json:"location"`
}

type RecyclingStats struct {
	TotalWeight     float64 `json:"totalWeight"`
	CarbonSaved     float64 `json:"carbonSaved"`
	TreesEquivalent int     `json:"treesEquivalent"`
}

func (r *RecyclingRecord) ToRecyclingRecordResponse() RecyclingRecordResponse {
	return RecyclingRecordResponse{
		ID:                  r.ID,
		Material:            r.Material,
		Weight:              r.Weight,
		Location:            r.Location,
		EnvironmentalImpact: r.EnvironmentalImpact,
		CreatedAt:           FormatTime(r.CreatedAt),
	}
}

// impactFactors maps a lower-cased material to its carbon multiplier.
var impactFactors = map[string]float64{
	"plastic":    2.0,
	"paper":      1.5,
	"glass":      0.5,
	"metal":      3.0,
	"electronic": 4.0,
}

// ImpactFactor returns the multiplier for material, 1.0 when unknown.
func ImpactFactor(material string) float64 {
	if f, ok := impactFactors[material]; ok {
		return f
	}
	return 1.0
}

// EnvironmentalImpact is weight × ImpactFactor(material).
func EnvironmentalImpact(material string, weight float64) float64 {
	return weight * ImpactFactor(material)
}

// KnownMaterial reports whether material has its own impact factor.
func KnownMaterial(material string) bool {
	_, ok := impactFactors[material]
	return ok
}
