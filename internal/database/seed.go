package database

import (
	"context"
	"fmt"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email    string
	password string
	name     string
	phone    string
	role     string
}

var demoUsers = []seedUser{
	{"demo@takatrack.com", "demo123", "Demo User", "1234567890", models.RoleDriver},
	{"admin@takatrack.com", "admin123", "Admin", "+254756789012", models.RoleAdmin},
	{"peter.kamau@takatrack.com", "driver123", "Peter Kamau", "+254711223344", models.RoleDriver},
	{"grace.wanjiru@takatrack.com", "driver123", "Grace Wanjiru", "+254722334455", models.RoleDriver},
	{"resident@takatrack.com", "resident123", "Jane Resident", "+254733445566", models.RoleResident},
}

var demoBins = []models.Bin{
	{Latitude: -1.2921, Longitude: 36.8219, Status: models.BinStatusFull, Type: "general"},
	{Latitude: -1.2865, Longitude: 36.8235, Status: models.BinStatusEmpty, Type: "recycling"},
	{Latitude: -1.2955, Longitude: 36.8195, Status: models.BinStatusHalf, Type: "organic"},
	{Latitude: -1.2630, Longitude: 36.8030, Status: models.BinStatusEmpty, Type: "general"},
	{Latitude: -1.3000, Longitude: 36.7850, Status: models.BinStatusHalf, Type: "recycling"},
}

func at(layout string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", layout)
	if err != nil {
		panic(err)
	}
	return &t
}

// SeedUsers creates the demo accounts when the users table is empty. It
// returns the created users keyed by email, or nil when seeding was skipped.
func SeedUsers(ctx context.Context, s store.Store) (map[string]*models.User, error) {
	log := zap.S()

	count, err := s.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		log.Info("✓ Users already seeded, skipping...")
		return nil, nil
	}

	log.Info("🌱 Seeding demo users...")

	created := make(map[string]*models.User, len(demoUsers))
	for _, su := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		u := &models.User{
			Email:        su.email,
			PasswordHash: string(hash),
			Name:         su.name,
			Phone:        su.phone,
			Role:         su.role,
		}
		if err := s.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		created[u.Email] = u
		log.Infof("  ✓ Created user: %s (%s)", u.Email, u.Role)
	}

	log.Info("✓ Successfully seeded demo users")
	log.Info("  📧 Demo:  demo@takatrack.com / demo123")
	log.Info("  📧 Admin: admin@takatrack.com / admin123")
	return created, nil
}

// SeedBins creates the demo bins when there are none. It returns them in
// insertion order, or nil when seeding was skipped.
func SeedBins(ctx context.Context, s store.Store) ([]models.Bin, error) {
	log := zap.S()

	count, err := s.CountBins(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		log.Info("✓ Bins already seeded, skipping...")
		return nil, nil
	}

	log.Infof("🌱 Seeding %d bins...", len(demoBins))

	bins := make([]models.Bin, 0, len(demoBins))
	for _, b := range demoBins {
		b := b
		if err := s.CreateBin(ctx, &b); err != nil {
			return nil, fmt.Errorf("seed bin: %w", err)
		}
		bins = append(bins, b)
	}

	log.Infof("✓ Successfully seeded %d bins", len(bins))
	return bins, nil
}

// seedActivity adds sample collections and recycling records. It only runs
// when both users and bins were freshly seeded so the references line up.
func seedActivity(ctx context.Context, s store.Store, users map[string]*models.User, bins []models.Bin) error {
	log := zap.S()

	demo := users["demo@takatrack.com"]
	peter := users["peter.kamau@takatrack.com"]
	grace := users["grace.wanjiru@takatrack.com"]

	collections := []models.Collection{
		{
			UserID: demo.ID, BinID: bins[0].ID, Status: models.CollectionStatusCompleted, Weight: 15.5,
			WasteType: "general", Location: "Westlands", Priority: models.PriorityHigh,
			ScheduledDate: at("2024-01-15 09:00"), CompletedDate: at("2024-01-15 10:30"),
		},
		{
			UserID: demo.ID, BinID: bins[1].ID, Status: models.CollectionStatusPending,
			WasteType: "recycling", Location: "Sarit Centre", Priority: models.PriorityMedium,
			ScheduledDate: at("2024-01-15 15:30"),
		},
		{
			UserID: peter.ID, BinID: bins[2].ID, Status: models.CollectionStatusInProgress,
			WasteType: "organic", Location: "Kilimani", Priority: models.PriorityMedium,
		},
		{
			UserID: grace.ID, BinID: bins[3].ID, Status: models.CollectionStatusCompleted, Weight: 22.0,
			WasteType: "general", Location: "Parklands", Priority: models.PriorityLow,
		},
	}
	for i := range collections {
		if err := s.CreateCollection(ctx, &collections[i]); err != nil {
			return fmt.Errorf("seed collection: %w", err)
		}
	}

	records := []struct {
		material string
		weight   float64
	}{
		{"plastic", 5.2},
		{"paper", 3.0},
		{"metal", 1.5},
		{"glass", 8.0},
	}
	for _, rec := range records {
		r := &models.RecyclingRecord{
			UserID:              demo.ID,
			Material:            rec.material,
			Weight:              rec.weight,
			Location:            models.DefaultRecyclingLocation,
			EnvironmentalImpact: models.EnvironmentalImpact(rec.material, rec.weight),
		}
		if err := s.CreateRecyclingRecord(ctx, r); err != nil {
			return fmt.Errorf("seed recycling record: %w", err)
		}
	}

	log.Infof("✓ Seeded %d collections and %d recycling records", len(collections), len(records))
	return nil
}

// Seed populates an empty store with the demo dataset in one transaction,
// so a failure leaves nothing behind and the next start seeds again.
// Running it against a populated store is a no-op.
func Seed(ctx context.Context, s *Store) error {
	return s.WithTx(ctx, func(tx *Store) error {
		users, err := SeedUsers(ctx, tx)
		if err != nil {
			return err
		}
		bins, err := SeedBins(ctx, tx)
		if err != nil {
			return err
		}
		if users == nil || bins == nil {
			return nil
		}
		return seedActivity(ctx, tx, users, bins)
	})
}
