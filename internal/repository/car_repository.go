// Package repository contains data access logic for the car listing
// domain. This file defines repository methods for cars and their
// images. Availability dates are DATE columns; they are written in
// "2006-01-02" form and read back as UTC midnights thanks to
// parseTime=true on the MySQL DSN.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/borrowmycar/backend/internal/model"
)

const dateLayout = "2006-01-02"

// CarRepo manages persistence for cars and car images.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo constructs a CarRepo with the given DB handle.
func NewCarRepo(db *sql.DB) *CarRepo {
	return &CarRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *CarRepo) DB() *sql.DB {
	return r.db
}

const carColumns = `id, owner_id, title, description, city, daily_rate_fils, status, available_from, available_to, created_at, updated_at`

func scanCar(row *sql.Row) (*model.Car, error) {
	var c model.Car
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.City, &c.DailyRateFils,
		&c.Status, &c.AvailableFrom, &c.AvailableTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new car and assigns the generated ID back to the
// struct, then re-reads the row to populate DB-default fields
// (status, timestamps).
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	const q = `INSERT INTO cars (owner_id, title, description, city, daily_rate_fils, available_from, available_to) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.OwnerID, c.Title, c.Description, c.City, c.DailyRateFils,
		c.AvailableFrom.Format(dateLayout), c.AvailableTo.Format(dateLayout))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + carColumns + ` FROM cars WHERE id = ?`
	got, err := scanCar(r.db.QueryRowContext(ctx, sel, c.ID))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID retrieves a car by its ID. It returns ErrCarNotFound if
// there is no matching row. Delisted cars are still returned here;
// use GetListedByID for public-facing lookups.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = ?`
	c, err := scanCar(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	return c, err
}

// GetListedByID retrieves a car by ID, treating delisted cars as
// missing.
func (r *CarRepo) GetListedByID(ctx context.Context, id uint64) (*model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = ? AND status = ?`
	c, err := scanCar(r.db.QueryRowContext(ctx, q, id, model.CarStatusListed))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	return c, err
}

// ListByOwner returns all cars belonging to the owner, newest first.
func (r *CarRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cars []model.Car
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.City, &c.DailyRateFils,
			&c.Status, &c.AvailableFrom, &c.AvailableTo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// CarUpdate carries the updatable listing fields. Nil pointers leave
// the current value untouched.
type CarUpdate struct {
	Title         *string
	Description   *string
	City          *string
	DailyRateFils *int64
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

// UpdateOwned applies the update to a car if and only if it belongs
// to ownerID. Returns ErrCarNotFound for a missing car, ErrForbidden
// when someone else owns it, ErrNoChange when nothing differs and
// ErrConflict when shrinking the availability window would leave a
// slot-holding booking outside it.
func (r *CarRepo) UpdateOwned(ctx context.Context, ownerID, carID uint64, u CarUpdate) (*model.Car, error) {
	cur, err := r.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	// The merged window must stay ordered.
	effFrom, effTo := cur.AvailableFrom, cur.AvailableTo
	if u.AvailableFrom != nil {
		effFrom = *u.AvailableFrom
	}
	if u.AvailableTo != nil {
		effTo = *u.AvailableTo
	}
	if effTo.Before(effFrom) {
		return nil, ErrInvalidWindow
	}

	// Shrinking the window must not orphan bookings that still hold
	// their slot; their ranges have to stay inside the new window.
	if effFrom.After(cur.AvailableFrom) || effTo.Before(cur.AvailableTo) {
		ranges, err := r.slotHoldingRanges(ctx, carID)
		if err != nil {
			return nil, err
		}
		for _, br := range ranges {
			if !rangeWithinWindow(effFrom, effTo, br.start, br.end) {
				return nil, ErrConflict
			}
		}
	}

	set := []string{}
	args := []any{}
	if u.Title != nil && *u.Title != cur.Title {
		set = append(set, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil && *u.Description != cur.Description {
		set = append(set, "description = ?")
		args = append(args, *u.Description)
	}
	if u.City != nil && *u.City != cur.City {
		set = append(set, "city = ?")
		args = append(args, *u.City)
	}
	if u.DailyRateFils != nil && *u.DailyRateFils != cur.DailyRateFils {
		set = append(set, "daily_rate_fils = ?")
		args = append(args, *u.DailyRateFils)
	}
	if u.AvailableFrom != nil && !u.AvailableFrom.Equal(cur.AvailableFrom) {
		set = append(set, "available_from = ?")
		args = append(args, u.AvailableFrom.Format(dateLayout))
	}
	if u.AvailableTo != nil && !u.AvailableTo.Equal(cur.AvailableTo) {
		set = append(set, "available_to = ?")
		args = append(args, u.AvailableTo.Format(dateLayout))
	}
	if len(set) == 0 {
		return nil, ErrNoChange
	}
	args = append(args, carID)
	q := `UPDATE cars SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, carID)
}

// DelistOwned hides the car from browse and booking. It fails with
// ErrConflict while any booking still holds its slot, so owners
// settle open bookings first.
func (r *CarRepo) DelistOwned(ctx context.Context, ownerID, carID uint64) error {
	cur, err := r.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if cur.OwnerID != ownerID {
		return ErrForbidden
	}
	holding, err := r.countSlotHolding(ctx, carID)
	if err != nil {
		return err
	}
	if holding > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `UPDATE cars SET status = ? WHERE id = ?`, model.CarStatusDelisted, carID)
	return err
}

// rangeWithinWindow reports whether the half-open booking range
// [start, end) fits inside an availability window whose last rentable
// day is to, so end may land at most one day past it.
func rangeWithinWindow(from, to, start, end time.Time) bool {
	return !start.Before(from) && !end.After(to.AddDate(0, 0, 1))
}

type bookingRange struct {
	start, end time.Time
}

// slotHoldingRanges returns the date ranges of every booking on the
// car whose status still reserves its slot.
func (r *CarRepo) slotHoldingRanges(ctx context.Context, carID uint64) ([]bookingRange, error) {
	statuses := model.SlotHoldingStatuses()
	ph := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := []any{carID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT start_date, end_date FROM bookings WHERE car_id = ? AND status IN (`+ph+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []bookingRange
	for rows.Next() {
		var br bookingRange
		if err := rows.Scan(&br.start, &br.end); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func (r *CarRepo) countSlotHolding(ctx context.Context, carID uint64) (int64, error) {
	statuses := model.SlotHoldingStatuses()
	ph := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := []any{carID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE car_id = ? AND status IN (`+ph+`)`,
		args...).Scan(&n)
	return n, err
}

// AddImage records an uploaded image URL against the car. Only the
// car's owner may attach images.
func (r *CarRepo) AddImage(ctx context.Context, ownerID, carID uint64, url string) (*model.CarImage, error) {
	cur, err := r.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO car_images (car_id, url) VALUES (?, ?)`, carID, url)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	img := &model.CarImage{ID: uint64(id), CarID: carID, URL: url}
	err = r.db.QueryRowContext(ctx, `SELECT created_at FROM car_images WHERE id = ?`, img.ID).Scan(&img.CreatedAt)
	return img, err
}

// ListImages returns the image URLs for a car, oldest first.
func (r *CarRepo) ListImages(ctx context.Context, carID uint64) ([]model.CarImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, url, created_at FROM car_images WHERE car_id = ? ORDER BY id`, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var imgs []model.CarImage
	for rows.Next() {
		var img model.CarImage
		if err := rows.Scan(&img.ID, &img.CarID, &img.URL, &img.CreatedAt); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}
