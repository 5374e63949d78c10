// Package store defines the entity store every service reads and writes
// through, plus an in-memory implementation used by tests and demos.
package store

import (
	"context"
	"errors"
	"time"

	"takatrack-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the durable mapping from entity kind + id to record.
//
// Listings of collections and recycling records are ordered by creation time
// descending (ties broken by id descending). Bins are ordered by id.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)

	CreateBin(ctx context.Context, b *models.Bin) error
	ListBins(ctx context.Context) ([]models.Bin, error)
	CountBins(ctx context.Context) (int, error)

	// CreateCollection inserts c as is; c.BinID must already be set.
	CreateCollection(ctx context.Context, c *models.Collection) error
	// ScheduleCollection atomically resolves the first bin whose type equals
	// fallback.Type (creating fallback when none exists), points c at it and
	// inserts c. The resolved bin is attached to c.Bin.
	ScheduleCollection(ctx context.Context, c *models.Collection, fallback models.Bin) error
	ListCollections(ctx context.Context) ([]models.Collection, error)
	GetCollection(ctx context.Context, id int64) (*models.Collection, error)
	UpdateCollection(ctx context.Context, id int64, upd CollectionUpdate) error
	CountCollectionsByStatus(ctx context.Context, status string) (int, error)
	ListDriverSummaries(ctx context.Context) ([]models.DriverSummary, error)

	CreateRecyclingRecord(ctx context.Context, r *models.RecyclingRecord) error
	ListRecyclingRecords(ctx context.Context) ([]models.RecyclingRecord, error)
	RecyclingTotals(ctx context.Context) (RecyclingTotals, error)

	SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error
	ListDeviceTokens(ctx context.Context, userID int64) ([]string, error)
}

// CollectionUpdate carries the in-place mutations a collection supports.
// Nil fields are left untouched.
type CollectionUpdate struct {
	Status        string
	Weight        *float64
	CompletedDate *time.Time
}

type RecyclingTotals struct {
	Weight float64 `db:"total_weight"`
	Impact float64 `db:"total_impact"`
}
