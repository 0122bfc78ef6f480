package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const (
	facilityTable          = "facility"
	facilityAmenitiesTable = "facility_amenities"
	facilityImagesTable    = "facility_images"
	facilityCareTypesTable = "facility_care_types"
	facilityToursTable     = "facility_tours"

	// searchPageSize caps every search; callers widen filters for more.
	searchPageSize = 20
)

// FacilityAdapter implements the read-only FacilityRepository. Filtering is
// pushed into SQL so unmatched facility graphs never cross the wire; related
// collections are loaded with batched IN queries over the page of ids.
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Search returns up to searchPageSize facilities matching the conjunctive filters
func (a *FacilityAdapter) Search(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ds := a.db.Select(
		"id", "name", "description", "city", "state", "facility_type",
		"price_min", "price_max", "is_active", "created_at", "updated_at",
	).From(facilityTable).
		Where(goqu.Ex{"is_active": true})

	if filter.Location != "" {
		ds = ds.Where(goqu.C("city").ILike("%" + filter.Location + "%"))
	}
	if filter.CareType != "" {
		ds = ds.Where(goqu.Ex{"facility_type": filter.CareType})
	}
	// Price filters keep any facility whose [price_min, price_max] range
	// overlaps the requested bounds.
	if filter.PriceMin != nil {
		ds = ds.Where(goqu.C("price_max").Gte(*filter.PriceMin))
	}
	if filter.PriceMax != nil {
		ds = ds.Where(goqu.C("price_min").Lte(*filter.PriceMax))
	}

	query, args, err := ds.Order(goqu.C("name").Asc()).Limit(searchPageSize).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	if err := a.loadRelations(ctx, facilities); err != nil {
		return nil, err
	}

	return facilities, nil
}

// GetDetails retrieves one facility with its full join graph
func (a *FacilityAdapter) GetDetails(ctx context.Context, id string) (*entities.Facility, error) {
	query, args, err := a.db.Select(
		"id", "name", "description", "city", "state", "facility_type",
		"price_min", "price_max", "is_active", "created_at", "updated_at",
	).From(facilityTable).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facility := &entities.Facility{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&facility.ID,
		&facility.Name,
		&facility.Description,
		&facility.City,
		&facility.State,
		&facility.FacilityType,
		&facility.PriceMin,
		&facility.PriceMax,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}

	if err := a.loadRelations(ctx, []*entities.Facility{facility}); err != nil {
		return nil, err
	}

	return facility, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facility.Description,
		&facility.City,
		&facility.State,
		&facility.FacilityType,
		&facility.PriceMin,
		&facility.PriceMax,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan facility", err)
	}
	return facility, nil
}

// loadRelations populates amenities, images, care types and tours for the
// given page of facilities. Facilities without relations keep empty slices.
func (a *FacilityAdapter) loadRelations(ctx context.Context, facilities []*entities.Facility) error {
	if len(facilities) == 0 {
		return nil
	}

	ids := make([]string, 0, len(facilities))
	byID := make(map[string]*entities.Facility, len(facilities))
	for _, f := range facilities {
		f.Amenities = []string{}
		f.Images = []entities.Image{}
		f.CareTypes = []string{}
		f.Tours = []entities.Tour{}
		ids = append(ids, f.ID)
		byID[f.ID] = f
	}

	if err := a.loadAmenities(ctx, ids, byID); err != nil {
		return err
	}
	if err := a.loadImages(ctx, ids, byID); err != nil {
		return err
	}
	if err := a.loadCareTypes(ctx, ids, byID); err != nil {
		return err
	}
	return a.loadTours(ctx, ids, byID)
}

func (a *FacilityAdapter) loadAmenities(ctx context.Context, ids []string, byID map[string]*entities.Facility) error {
	query, args, err := a.db.Select("facility_id", "name").
		From(facilityAmenitiesTable).
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build amenities query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load amenities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facilityID, name string
		if err := rows.Scan(&facilityID, &name); err != nil {
			return apperrors.NewInternalError("failed to scan amenity", err)
		}
		if f, ok := byID[facilityID]; ok {
			f.Amenities = append(f.Amenities, name)
		}
	}
	return rows.Err()
}

func (a *FacilityAdapter) loadImages(ctx context.Context, ids []string, byID map[string]*entities.Facility) error {
	query, args, err := a.db.Select("id", "facility_id", "url", "caption").
		From(facilityImagesTable).
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build images query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load images", err)
	}
	defer rows.Close()

	for rows.Next() {
		var image entities.Image
		var caption sql.NullString
		if err := rows.Scan(&image.ID, &image.FacilityID, &image.URL, &caption); err != nil {
			return apperrors.NewInternalError("failed to scan image", err)
		}
		image.Caption = caption.String
		if f, ok := byID[image.FacilityID]; ok {
			f.Images = append(f.Images, image)
		}
	}
	return rows.Err()
}

func (a *FacilityAdapter) loadCareTypes(ctx context.Context, ids []string, byID map[string]*entities.Facility) error {
	query, args, err := a.db.Select("facility_id", "care_type").
		From(facilityCareTypesTable).
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build care types query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load care types", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facilityID, careType string
		if err := rows.Scan(&facilityID, &careType); err != nil {
			return apperrors.NewInternalError("failed to scan care type", err)
		}
		if f, ok := byID[facilityID]; ok {
			f.CareTypes = append(f.CareTypes, careType)
		}
	}
	return rows.Err()
}

func (a *FacilityAdapter) loadTours(ctx context.Context, ids []string, byID map[string]*entities.Facility) error {
	query, args, err := a.db.Select("id", "facility_id", "scheduled_at", "status").
		From(facilityToursTable).
		Where(goqu.Ex{"facility_id": ids}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build tours query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load tours", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tour entities.Tour
		if err := rows.Scan(&tour.ID, &tour.FacilityID, &tour.ScheduledAt, &tour.Status); err != nil {
			return apperrors.NewInternalError("failed to scan tour", err)
		}
		if f, ok := byID[tour.FacilityID]; ok {
			f.Tours = append(f.Tours, tour)
		}
	}
	return rows.Err()
}
