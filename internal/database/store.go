package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Store implements store.Store on top of sqlx. Queries are written with '?'
// placeholders and rebound for the connected driver.
type Store struct {
	db *sqlx.DB
	q  dbtx
	tx *sqlx.Tx // set when the store is bound to a transaction
}

// dbtx is satisfied by both *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

// WithTx runs fn against a store bound to one transaction, committing when
// fn returns nil and rolling back otherwise. Nested calls join the outer
// transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

const userColumns = `id, email, name, phone, role, password_hash, created_at`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}

	query := s.q.Rebind(`
		INSERT INTO users (email, name, phone, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.q.QueryRowxContext(ctx, query,
		u.Email, u.Name, u.Phone, u.Role, u.PasswordHash, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.q.GetContext(ctx, &u, s.q.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.q.GetContext(ctx, &u, s.q.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.q.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}

const binColumns = `id, latitude, longitude, status, type, created_at`

func insertBin(ctx context.Context, q dbtx, b *models.Bin) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now()
	}

	query := q.Rebind(`
		INSERT INTO waste_bins (latitude, longitude, status, type, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	return q.QueryRowxContext(ctx, query, b.Latitude, b.Longitude, b.Status, b.Type, b.CreatedAt).Scan(&b.ID)
}

func (s *Store) CreateBin(ctx context.Context, b *models.Bin) error {
	if err := insertBin(ctx, s.q, b); err != nil {
		return fmt.Errorf("failed to insert bin: %w", err)
	}
	return nil
}

func (s *Store) ListBins(ctx context.Context) ([]models.Bin, error) {
	bins := []models.Bin{}
	if err := s.q.SelectContext(ctx, &bins, `SELECT `+binColumns+` FROM waste_bins ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return bins, nil
}

func (s *Store) CountBins(ctx context.Context) (int, error) {
	var count int
	if err := s.q.GetContext(ctx, &count, `SELECT COUNT(*) FROM waste_bins`); err != nil {
		return 0, err
	}
	return count, nil
}

func insertCollection(ctx context.Context, q dbtx, c *models.Collection) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	query := q.Rebind(`
		INSERT INTO collections (
			user_id, bin_id, status, weight, waste_type, location, priority,
			scheduled_date, completed_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	return q.QueryRowxContext(ctx, query,
		c.UserID, c.BinID, c.Status, c.Weight, c.WasteType, c.Location, c.Priority,
		c.ScheduledDate, c.CompletedDate, c.CreatedAt,
	).Scan(&c.ID)
}

func (s *Store) CreateCollection(ctx context.Context, c *models.Collection) error {
	if err := insertCollection(ctx, s.q, c); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

// ScheduleCollection runs find-or-create bin and the collection insert in
// one transaction. On PostgreSQL the bins table is locked against concurrent
// writers for the duration; SQLite is already serialized by Connect.
func (s *Store) ScheduleCollection(ctx context.Context, c *models.Collection, fallback models.Bin) error {
	var bin models.Bin
	err := s.WithTx(ctx, func(tx *Store) error {
		if tx.db.DriverName() == DriverPostgres {
			if _, err := tx.q.ExecContext(ctx, `LOCK TABLE waste_bins IN SHARE ROW EXCLUSIVE MODE`); err != nil {
				return fmt.Errorf("failed to lock waste_bins: %w", err)
			}
		}

		err := tx.q.GetContext(ctx, &bin, tx.q.Rebind(`
			SELECT `+binColumns+` FROM waste_bins WHERE type = ? ORDER BY id ASC LIMIT 1
		`), fallback.Type)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			bin = fallback
			if err := insertBin(ctx, tx.q, &bin); err != nil {
				return fmt.Errorf("failed to create bin for %q: %w", fallback.Type, err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up bin: %w", err)
		}

		c.BinID = bin.ID
		if err := insertCollection(ctx, tx.q, c); err != nil {
			return fmt.Errorf("failed to insert collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.Bin = &bin
	return nil
}

// collectionRow is a collection LEFT JOINed with its bin.
type collectionRow struct {
	models.Collection
	JoinedBinID  sql.NullInt64   `db:"joined_bin_id"`
	BinLatitude  sql.NullFloat64 `db:"bin_latitude"`
	BinLongitude sql.NullFloat64 `db:"bin_longitude"`
	BinStatus    sql.NullString  `db:"bin_status"`
	BinType      sql.NullString  `db:"bin_type"`
	BinCreatedAt sql.NullTime    `db:"bin_created_at"`
}

func (r *collectionRow) toCollection() models.Collection {
	c := r.Collection
	if r.JoinedBinID.Valid {
		c.Bin = &models.Bin{
			ID:        r.JoinedBinID.Int64,
			Latitude:  r.BinLatitude.Float64,
			Longitude: r.BinLongitude.Float64,
			Status:    r.BinStatus.String,
			Type:      r.BinType.String,
			CreatedAt: r.BinCreatedAt.Time,
		}
	}
	return c
}

const collectionSelect = `
	SELECT
		c.id, c.user_id, c.bin_id, c.status, c.weight, c.waste_type, c.location,
		c.priority, c.scheduled_date, c.completed_date, c.created_at,
		b.id AS joined_bin_id,
		b.latitude AS bin_latitude,
		b.longitude AS bin_longitude,
		b.status AS bin_status,
		b.type AS bin_type,
		b.created_at AS bin_created_at
	FROM collections c
	LEFT JOIN waste_bins b ON c.bin_id = b.id
`

func (s *Store) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var rows []collectionRow
	err := s.q.SelectContext(ctx, &rows, collectionSelect+` ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, err
	}

	collections := make([]models.Collection, len(rows))
	for i := range rows {
		collections[i] = rows[i].toCollection()
	}
	return collections, nil
}

func (s *Store) GetCollection(ctx context.Context, id int64) (*models.Collection, error) {
	var row collectionRow
	err := s.q.GetContext(ctx, &row, s.q.Rebind(collectionSelect+` WHERE c.id = ?`), id)
	if err != nil {
		return nil, notFound(err)
	}
	c := row.toCollection()
	return &c, nil
}

func (s *Store) UpdateCollection(ctx context.Context, id int64, upd store.CollectionUpdate) error {
	sets := []string{"status = ?"}
	args := []interface{}{upd.Status}

	if upd.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *upd.Weight)
	}
	if upd.CompletedDate != nil {
		sets = append(sets, "completed_date = ?")
		args = append(args, *upd.CompletedDate)
	}
	args = append(args, id)

	query := s.q.Rebind(`UPDATE collections SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountCollectionsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.q.GetContext(ctx, &count, s.q.Rebind(`SELECT COUNT(*) FROM collections WHERE status = ?`), status)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListDriverSummaries(ctx context.Context) ([]models.DriverSummary, error) {
	query := s.q.Rebind(`
		SELECT
			u.id,
			u.name,
			u.phone,
			u.email,
			COUNT(c.id) AS collection_count,
			COALESCE(SUM(CASE WHEN c.status = ? THEN c.weight ELSE 0.0 END), 0.0) AS completed_weight
		FROM users u
		LEFT JOIN collections c ON c.user_id = u.id
		WHERE u.role = ?
		GROUP BY u.id, u.name, u.phone, u.email
		ORDER BY u.name ASC, u.id ASC
	`)

	drivers := []models.DriverSummary{}
	if err := s.q.SelectContext(ctx, &drivers, query, models.CollectionStatusCompleted, models.RoleDriver); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (s *Store) CreateRecyclingRecord(ctx context.Context, r *models.RecyclingRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	}

	query := s.q.Rebind(`
		INSERT INTO recycling_records (user_id, material_type, weight, location, environmental_impact, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.q.QueryRowxContext(ctx, query,
		r.UserID, r.Material, r.Weight, r.Location, r.EnvironmentalImpact, r.CreatedAt,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to insert recycling record: %w", err)
	}
	return nil
}

func (s *Store) ListRecyclingRecords(ctx context.Context) ([]models.RecyclingRecord, error) {
	records := []models.RecyclingRecord{}
	err := s.q.SelectContext(ctx, &records, `
		SELECT id, user_id, material_type, weight, location, environmental_impact, created_at
		FROM recycling_records
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) RecyclingTotals(ctx context.Context) (store.RecyclingTotals, error) {
	var totals store.RecyclingTotals
	err := s.q.GetContext(ctx, &totals, `
		SELECT
			COALESCE(SUM(weight), 0.0) AS total_weight,
			COALESCE(SUM(environmental_impact), 0.0) AS total_impact
		FROM recycling_records
	`)
	return totals, err
}

// SaveDeviceToken upserts on the token; a device that changes owner moves
// with its token.
func (s *Store) SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error {
	ts := now()
	query := s.q.Rebind(`
		INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			updated_at = EXCLUDED.updated_at
	`)
	if _, err := s.q.ExecContext(ctx, query, t.UserID, t.Token, t.DeviceType, ts, ts); err != nil {
		return fmt.Errorf("failed to save device token: %w", err)
	}

	err := s.q.GetContext(ctx, t, s.q.Rebind(`
		SELECT id, user_id, token, device_type, created_at, updated_at
		FROM fcm_tokens WHERE token = ?
	`), t.Token)
	if err != nil {
		return fmt.Errorf("failed to reload device token: %w", err)
	}
	return nil
}

func (s *Store) ListDeviceTokens(ctx context.Context, userID int64) ([]string, error) {
	tokens := []string{}
	err := s.q.SelectContext(ctx, &tokens, s.q.Rebind(`
		SELECT token FROM fcm_tokens WHERE user_id = ? ORDER BY token ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
