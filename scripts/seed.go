package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
	"github.com/carebridge/seniorplacement/backend/pkg/config"
)

type seedFacility struct {
	name         string
	description  string
	city         string
	state        string
	facilityType string
	priceMin     float64
	priceMax     float64
	amenities    []string
	careTypes    []string
	imageURL     string
}

var seedFacilities = []seedFacility{
	{
		name:         "Desert Bloom Senior Living",
		description:  "Assisted living community with landscaped gardens and on-site care staff.",
		city:         "Phoenix",
		state:        "AZ",
		facilityType: "assisted_living",
		priceMin:     2500,
		priceMax:     4200,
		amenities:    []string{"Garden", "Library", "Salon", "Transportation"},
		careTypes:    []string{"assisted_living", "respite_care"},
		imageURL:     "https://images.example.com/desert-bloom.jpg",
	},
	{
		name:         "Sunrise Memory Cottage",
		description:  "Secured memory care neighborhood with structured daily programming.",
		city:         "Mesa",
		state:        "AZ",
		facilityType: "memory_care",
		priceMin:     4800,
		priceMax:     6900,
		amenities:    []string{"Secured courtyard", "Sensory room"},
		careTypes:    []string{"memory_care"},
		imageURL:     "https://images.example.com/sunrise-cottage.jpg",
	},
	{
		name:         "Saguaro Independent Villas",
		description:  "Independent living villas for active seniors, meal plan optional.",
		city:         "Scottsdale",
		state:        "AZ",
		facilityType: "independent_living",
		priceMin:     1800,
		priceMax:     3100,
		amenities:    []string{"Pool", "Fitness center", "Clubhouse"},
		careTypes:    []string{"independent_living"},
		imageURL:     "https://images.example.com/saguaro-villas.jpg",
	},
	{
		name:         "Camelback Skilled Nursing",
		description:  "Skilled nursing facility with rehabilitation services.",
		city:         "Phoenix",
		state:        "AZ",
		facilityType: "skilled_nursing",
		priceMin:     6500,
		priceMax:     9800,
		amenities:    []string{"Rehab gym", "Chapel"},
		careTypes:    []string{"skilled_nursing", "rehabilitation"},
		imageURL:     "https://images.example.com/camelback-nursing.jpg",
	},
}

func main() {
	_ = godotenv.Load()
	observability.InitLogger("seed", "development")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer client.Close()

	db := goqu.New("postgres", client.DB())
	ctx := context.Background()
	now := time.Now()

	for _, f := range seedFacilities {
		facilityID := uuid.New().String()

		query, args, err := db.Insert("facility").Rows(goqu.Record{
			"id":            facilityID,
			"name":          f.name,
			"description":   f.description,
			"city":          f.city,
			"state":         f.state,
			"facility_type": f.facilityType,
			"price_min":     f.priceMin,
			"price_max":     f.priceMax,
			"is_active":     true,
			"created_at":    now,
			"updated_at":    now,
		}).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build facility insert")
		}
		if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
			log.Fatal().Err(err).Str("facility", f.name).Msg("failed to insert facility")
		}

		for _, amenity := range f.amenities {
			if err := insertRow(ctx, client, db, "facility_amenities", goqu.Record{
				"id":          uuid.New().String(),
				"facility_id": facilityID,
				"name":        amenity,
			}); err != nil {
				log.Fatal().Err(err).Str("facility", f.name).Msg("failed to insert amenity")
			}
		}

		for _, careType := range f.careTypes {
			if err := insertRow(ctx, client, db, "facility_care_types", goqu.Record{
				"id":          uuid.New().String(),
				"facility_id": facilityID,
				"care_type":   careType,
			}); err != nil {
				log.Fatal().Err(err).Str("facility", f.name).Msg("failed to insert care type")
			}
		}

		if err := insertRow(ctx, client, db, "facility_images", goqu.Record{
			"id":          uuid.New().String(),
			"facility_id": facilityID,
			"url":         f.imageURL,
			"caption":     fmt.Sprintf("%s exterior", f.name),
		}); err != nil {
			log.Fatal().Err(err).Str("facility", f.name).Msg("failed to insert image")
		}

		if err := insertRow(ctx, client, db, "facility_tours", goqu.Record{
			"id":           uuid.New().String(),
			"facility_id":  facilityID,
			"scheduled_at": now.Add(72 * time.Hour),
			"status":       "scheduled",
		}); err != nil {
			log.Fatal().Err(err).Str("facility", f.name).Msg("failed to insert tour")
		}

		log.Info().Str("facility", f.name).Str("id", facilityID).Msg("seeded facility")
	}

	log.Info().Int("count", len(seedFacilities)).Msg("seeding complete")
	os.Exit(0)
}

func insertRow(ctx context.Context, client *postgres.Client, db *goqu.Database, table string, record goqu.Record) error {
	query, args, err := db.Insert(table).Rows(record).ToSQL()
	if err != nil {
		return err
	}
	_, err = client.DB().ExecContext(ctx, query, args...)
	return err
}
