package models

import "time"

const (
	CollectionStatusPending    = "pending"
	CollectionStatusInProgress = "in_progress"
	CollectionStatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Collection struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	BinID         int64      `json:"bin_id" db:"bin_id"`
	Status        string     `json:"status" db:"status"`
	Weight        float64    `json:"weight" db:"weight"`
	WasteType     string     `json:"waste_type" db:"waste_type"`
	Location      string     `json:"location" db:"location"`
	Priority      string     `json:"priority" db:"priority"`
	ScheduledDate *time.Time `json:"scheduled_date" db:"scheduled_date"`
	CompletedDate *time.Time `json:"completed_date" db:"completed_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	// Bin is populated by listings that join waste_bins; nil when the join misses.
	Bin *Bin `json:"-" db:"-"`
}

type CollectionResponse struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id"`
	BinID         int64        `json:"bin_id"`
	Status        string       `json:"status"`
	Weight        float64      `json:"weight"`
	WasteType     string       `json:"waste_type"`
	Location      string       `json:"location"`
	Priority      string       `json:"priority"`
	ScheduledDate *string      `json:"scheduled_date"`
	CompletedDate *string      `json:"completed_date"`
	CreatedAt     string       `json:"created_at"`
	Bin           *BinResponse `json:"bin"`
}

// CreateCollectionRequest is the request body for POST /api/waste/collections
type CreateCollectionRequest struct {
	Location      string `json:"location"`
	WasteType     string `json:"wasteType"`
	Priority      string `json:"priority"`
	ScheduledDate string `json:"scheduledDate"`
}

// UpdateCollectionRequest is the request body for PUT /api/waste/collections/{id}
type UpdateCollectionRequest struct {
	Status *string  `json:"status"`
	Weight *float64 `json:"weight,omitempty"`
}

// ToCollectionResponse converts a Collection to CollectionResponse
func (c *Collection) ToCollectionResponse() CollectionResponse {
	resp := CollectionResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		BinID:         c.BinID,
		Status:        c.Status,
		Weight:        c.Weight,
		WasteType:     c.WasteType,
		Location:      c.Location,
		Priority:      c.Priority,
		ScheduledDate: FormatOptionalTime(c.ScheduledDate),
		CompletedDate: FormatOptionalTime(c.CompletedDate),
		CreatedAt:     FormatTime(c.CreatedAt),
	}

	if c.Bin != nil {
		bin := c.Bin.ToBinResponse()
		resp.Bin = &bin
	}

	return resp
}
