// Command seed populates the database with demo profiles, matches, and
// conversations for local development.
package main

import (
	"flag"
	"log"

	"kindling/internal/config"
	"kindling/internal/database"
	"kindling/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	profiles := flag.Int("profiles", 40, "number of demo profiles to create")
	clean := flag.Bool("clean", false, "truncate existing data before seeding")
	lat := flag.Float64("lat", 30.2672, "center latitude for generated profiles")
	lng := flag.Float64("lng", -97.7431, "center longitude for generated profiles")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumProfiles: *profiles,
		ShouldClean: *clean,
		CenterLat:   *lat,
		CenterLng:   *lng,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
