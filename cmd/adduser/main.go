package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"takatrack-backend/internal/database"
	"takatrack-backend/internal/logging"
	"takatrack-backend/internal/models"
	"takatrack-backend/internal/services"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type adduserEnv struct {
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	email := flag.String("email", "", "account email (required)")
	password := flag.String("password", "", "account password (required)")
	name := flag.String("name", "", "display name (required)")
	phone := flag.String("phone", "", "phone number")
	role := flag.String("role", models.RoleAdmin, "resident, driver or admin")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &adduserEnv{}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	_, flush, err := logging.Setup(logging.Options{Level: "info"})
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

	// Registration only hashes and stores; no token secret is needed.
	auth := services.NewAuthService(database.NewStore(db), "", 0)
	user, err := auth.Register(ctx, models.RegisterRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
		Phone:    *phone,
		Role:     *role,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			zap.S().Warnf("⚠️  User already exists: %s", *email)
			return nil
		}
		if errors.Is(err, services.ErrInvalidInput) {
			flag.Usage()
		}
		return err
	}

	zap.S().Infof("✅ Created %s user: %s (id %d)", user.Role, user.Email, user.ID)
	return nil
}
