package main

import (
	"context"
	"fmt"
	"log"

	"takatrack-backend/internal/database"
	"takatrack-backend/internal/logging"
	"takatrack-backend/internal/models"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type migrateEnv struct {
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Seed        bool   `env:"SEED_DEMO_DATA" envDefault:"true"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &migrateEnv{}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	_, flush, err := logging.Setup(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer flush()

	ctx := context.Background()

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	zap.S().Info("Migration completed successfully!")

	st := database.NewStore(db)
	if cfg.Seed {
		if err := database.Seed(ctx, st); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	// Query and display summary
	users, err := st.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to query summary: %w", err)
	}
	bins, err := st.CountBins(ctx)
	if err != nil {
		return fmt.Errorf("failed to query summary: %w", err)
	}
	counts := map[string]int{}
	for _, status := range []string{
		models.CollectionStatusPending,
		models.CollectionStatusInProgress,
		models.CollectionStatusCompleted,
	} {
		n, err := st.CountCollectionsByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("failed to query summary: %w", err)
		}
		counts[status] = n
	}
	totals, err := st.RecyclingTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to query summary: %w", err)
	}

	// Display results
	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:                   %d\n", users)
	fmt.Printf("Waste bins:              %d\n", bins)
	fmt.Printf("Collections pending:     %d\n", counts[models.CollectionStatusPending])
	fmt.Printf("Collections in progress: %d\n", counts[models.CollectionStatusInProgress])
	fmt.Printf("Collections completed:   %d\n", counts[models.CollectionStatusCompleted])
	fmt.Printf("Recycled weight (kg):    %.2f\n", totals.Weight)
	fmt.Println("============================================================")
	return nil
}
