// Command seed-badges upserts the static badge catalog.
//
// Usage:
//
//	seed-badges
//
// Requires DATABASE_DSN environment variable to be set. Safe to re-run;
// existing badges are updated in place by name.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	badgerepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/badge"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	repo := badgerepo.New(pool)

	seeded := 0
	for _, badge := range gamification.CatalogSeed() {
		if err := repo.Upsert(ctx, badge); err != nil {
			log.Fatalf("upsert badge %q: %v", badge.Name, err)
		}
		seeded++
	}

	fmt.Printf("Seeded %d badges.\n", seeded)
}
