// seed inserts an admin, a student and a cohort into the local dev database.
// Re-runs are idempotent. Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/infrastructure/postgres"
	"github.com/Samuel-soita/project-tracker-backend/internal/password"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedPassword = "password123"
	cohortName   = "Cohort A"
)

type userSpec struct {
	name  string
	email string
	role  domain.Role
}

var users = []userSpec{
	{"Admin", "admin@tracker.local", domain.RoleAdmin},
	{"Student", "student@tracker.local", domain.RoleStudent},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	hasher := password.NewHasher(bcrypt.DefaultCost)

	ids := make(map[domain.Role]string)
	for _, spec := range users {
		u, err := userRepo.FindByEmail(ctx, spec.email)
		if errors.Is(err, domain.ErrUserNotFound) {
			hash, herr := hasher.Hash(seedPassword)
			if herr != nil {
				log.Fatalf("hash: %v", herr)
			}
			u, err = userRepo.Create(ctx, &domain.User{
				Name:         spec.name,
				Email:        spec.email,
				PasswordHash: hash,
				Role:         spec.role,
				IsVerified:   true,
			})
		}
		if err != nil {
			log.Fatalf("seed user %s: %v", spec.email, err)
		}
		ids[spec.role] = u.ID
	}

	var cohortID string
	err = pool.QueryRow(ctx, `SELECT id FROM cohorts WHERE name = $1 ORDER BY created_at LIMIT 1`, cohortName).Scan(&cohortID)
	if errors.Is(err, pgx.ErrNoRows) {
		var c *domain.Cohort
		c, err = postgres.NewCohortRepository(pool).Create(ctx, &domain.Cohort{Name: cohortName})
		if c != nil {
			cohortID = c.ID
		}
	}
	if err != nil {
		log.Fatalf("seed cohort: %v", err)
	}

	if err := userRepo.SetCohort(ctx, ids[domain.RoleStudent], cohortID); err != nil {
		log.Fatalf("join cohort: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	for _, spec := range users {
		fmt.Printf("  %-8s %s / %s  (id %s)\n", spec.role, spec.email, seedPassword, ids[spec.role])
	}
	fmt.Printf("  Cohort   %s  (id %s, student joined)\n", cohortName, cohortID)
	fmt.Println()
	fmt.Println("Log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", users[1].email, seedPassword)
}
