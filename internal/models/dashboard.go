package models

type DashboardStats struct {
	TotalBins          int     `json:"totalBins"`
	Completed          int     `json:"completed"`
	Pending            int     `json:"pending"`
	InProgress         int     `json:"inProgress"`
	RecycledWeight     float64 `json:"recycledWeight"`
	CollectedToday     int     `json:"collectedToday"`
	PendingCollections int     `json:"pendingCollections"`
	ActiveDrivers      int     `json:"activeDrivers"`
}

type Notification struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Time    string `json:"time"`
}

// DriverSummary is a driver joined with aggregates over their collections
type DriverSummary struct {
	ID              int64   `db:"id"`
	Name            string  `db:"name"`
	Phone           string  `db:"phone"`
	Email           string  `db:"email"`
	CollectionCount int     `db:"collection_count"`
	CompletedWeight float64 `db:"completed_weight"`
}

const (
	DriverStatusActive    = "active"
	DriverStatusAvailable = "available"
)

type DriverResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	ActiveCollections int     `json:"activeCollections"`
	TotalCollected    float64 `json:"totalCollected"`
	Status            string  `json:"status"`
}
