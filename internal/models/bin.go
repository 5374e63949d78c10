package models

import "time"

const (
	BinStatusEmpty   = "empty"
	BinStatusHalf    = "half"
	BinStatusFull    = "full"
	BinStatusPending = "pending"

	DefaultWasteType = "general"
)

// Fallback position for bins created on demand when a collection is
// scheduled for a waste type that has no bin yet (Nairobi CBD).
const (
	FallbackBinLatitude  = -1.2921
	FallbackBinLongitude = 36.8219
)

type Bin struct {
	ID        int64     `json:"id" db:"id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Status    string    `json:"status" db:"status"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BinResponse is what we send to the client with ISO timestamps
type BinResponse struct {
	ID          int64   `json:"id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	LastUpdated string  `json:"lastUpdated"`
}

// ToBinResponse converts a Bin to BinResponse. LastUpdated is the creation
// time; the bin listing overrides it with the time of the reading.
func (b *Bin) ToBinResponse() BinResponse {
	return BinResponse{
		ID:          b.ID,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Status:      b.Status,
		Type:        b.Type,
		LastUpdated: FormatTime(b.CreatedAt),
	}
}

// FallbackBin is the template used when no bin of wasteType exists.
func FallbackBin(wasteType string) Bin {
	return Bin{
		Latitude:  FallbackBinLatitude,
		Longitude: FallbackBinLongitude,
		Status:    BinStatusPending,
		Type:      wasteType,
	}
}
