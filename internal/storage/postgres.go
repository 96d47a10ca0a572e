package storage

import (
	"context"
	"errors"
	"fmt"

	"listings/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested accommodation does not exist.
var ErrNotFound = errors.New("accommodation not found")

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CreateAccommodation saves an accommodation and its unit types, images and
// amenity links within a single transaction, returning the new id.
func (s *PostgresStore) CreateAccommodation(ctx context.Context, a *domain.Accommodation) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx,
		`INSERT INTO accommodations
		   (name, resort_title, description, nightly_price, number_of_units,
		    guests, bedrooms, bathrooms,
		    street_address, barangay, municipality_city, province, region, zip_code,
		    contact_name, contact_email, contact_number,
		    status, featured, imported_from)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		 RETURNING id`,
		a.Name, a.ResortTitle, a.Description, a.NightlyPrice, a.NumberOfUnits,
		a.Guests, a.Bedrooms, a.Bathrooms,
		a.StreetAddress, a.Barangay, a.MunicipalityCity, a.Province, a.Region, a.ZipCode,
		a.ContactName, a.ContactEmail, a.ContactNumber,
		a.Status, a.Featured, a.ImportedFrom,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	batch := &pgx.Batch{}
	for _, ut := range a.UnitTypes {
		batch.Queue(`INSERT INTO unit_types (accommodation_id, name, price) VALUES ($1, $2, $3)`,
			id, ut.Name, ut.Price)
	}
	for i, img := range a.Images {
		batch.Queue(`INSERT INTO accommodation_images (accommodation_id, url, position) VALUES ($1, $2, $3)`,
			id, img.URL, i)
	}
	for _, label := range a.Amenities {
		batch.Queue(`INSERT INTO accommodation_amenities (accommodation_id, label) VALUES ($1, $2)
		             ON CONFLICT (accommodation_id, label) DO NOTHING`,
			id, label)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// GetAccommodation fetches one accommodation with its children.
func (s *PostgresStore) GetAccommodation(ctx context.Context, id string) (*domain.Accommodation, error) {
	var a domain.Accommodation
	err := s.db.QueryRow(ctx,
		`SELECT id, name, resort_title, description, nightly_price, number_of_units,
		        guests, bedrooms, bathrooms,
		        street_address, barangay, municipality_city, province, region, zip_code,
		        contact_name, contact_email, contact_number,
		        status, featured, imported_from, created_at, updated_at
		 FROM accommodations WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.ResortTitle, &a.Description, &a.NightlyPrice, &a.NumberOfUnits,
		&a.Guests, &a.Bedrooms, &a.Bathrooms,
		&a.StreetAddress, &a.Barangay, &a.MunicipalityCity, &a.Province, &a.Region, &a.ZipCode,
		&a.ContactName, &a.ContactEmail, &a.ContactNumber,
		&a.Status, &a.Featured, &a.ImportedFrom, &a.CreatedAt, &a.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.Amenities = []string{}
	a.UnitTypes = []domain.UnitType{}
	a.Images = []domain.AccommodationImage{}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, price FROM unit_types WHERE accommodation_id = $1 ORDER BY name`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ut domain.UnitType
		if err := rows.Scan(&ut.ID, &ut.Name, &ut.Price); err != nil {
			return nil, err
		}
		a.UnitTypes = append(a.UnitTypes, ut)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := s.db.Query(ctx,
		`SELECT id, url, position FROM accommodation_images WHERE accommodation_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img domain.AccommodationImage
		if err := imgRows.Scan(&img.ID, &img.URL, &img.Position); err != nil {
			return nil, err
		}
		a.Images = append(a.Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return nil, err
	}

	amenRows, err := s.db.Query(ctx,
		`SELECT label FROM accommodation_amenities WHERE accommodation_id = $1 ORDER BY label`, id)
	if err != nil {
		return nil, err
	}
	defer amenRows.Close()
	for amenRows.Next() {
		var label string
		if err := amenRows.Scan(&label); err != nil {
			return nil, err
		}
		a.Amenities = append(a.Amenities, label)
	}
	if err := amenRows.Err(); err != nil {
		return nil, err
	}

	return &a, nil
}

// ListAccommodations returns accommodation rows without children, newest
// first, optionally filtered by status and the featured flag.
func (s *PostgresStore) ListAccommodations(ctx context.Context, status string, featuredOnly bool) ([]domain.Accommodation, error) {
	query := `SELECT id, name, resort_title, description, nightly_price, number_of_units,
	                 guests, bedrooms, bathrooms,
	                 street_address, barangay, municipality_city, province, region, zip_code,
	                 contact_name, contact_email, contact_number,
	                 status, featured, imported_from, created_at, updated_at
	          FROM accommodations WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if featuredOnly {
		query += " AND featured = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accommodations := []domain.Accommodation{}
	for rows.Next() {
		var a domain.Accommodation
		if err := rows.Scan(&a.ID, &a.Name, &a.ResortTitle, &a.Description, &a.NightlyPrice, &a.NumberOfUnits,
			&a.Guests, &a.Bedrooms, &a.Bathrooms,
			&a.StreetAddress, &a.Barangay, &a.MunicipalityCity, &a.Province, &a.Region, &a.ZipCode,
			&a.ContactName, &a.ContactEmail, &a.ContactNumber,
			&a.Status, &a.Featured, &a.ImportedFrom, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accommodations = append(accommodations, a)
	}
	return accommodations, rows.Err()
}

// UpdateAccommodation updates the scalar fields of an accommodation.
// Children are replaced through their own create path, not patched here.
func (s *PostgresStore) UpdateAccommodation(ctx context.Context, id string, a *domain.Accommodation) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE accommodations SET
		   name = $2, resort_title = $3, description = $4, nightly_price = $5,
		   number_of_units = $6, guests = $7, bedrooms = $8, bathrooms = $9,
		   street_address = $10, barangay = $11, municipality_city = $12,
		   province = $13, region = $14, zip_code = $15,
		   contact_name = $16, contact_email = $17, contact_number = $18,
		   status = $19, featured = $20, updated_at = NOW()
		 WHERE id = $1`,
		id, a.Name, a.ResortTitle, a.Description, a.NightlyPrice,
		a.NumberOfUnits, a.Guests, a.Bedrooms, a.Bathrooms,
		a.StreetAddress, a.Barangay, a.MunicipalityCity,
		a.Province, a.Region, a.ZipCode,
		a.ContactName, a.ContactEmail, a.ContactNumber,
		a.Status, a.Featured)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAccommodation removes an accommodation; child rows cascade.
func (s *PostgresStore) DeleteAccommodation(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM accommodations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
