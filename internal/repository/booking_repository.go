// This file implements persistence for bookings. BookingRepo doubles
// as the booking core's Store: the same type serves the HTTP layer's
// listing needs and the booking.Service's locked create/transition
// path. All timestamp fields are stored in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/borrowmycar/backend/internal/booking"
	"github.com/borrowmycar/backend/internal/model"
)

// queryer is the subset of *sql.DB / *sql.Tx the repo needs, so the
// same methods work inside and outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BookingRepo manages rows in the 'bookings' table and implements
// booking.Store. Outside WithCarLock it queries the pool directly;
// inside, a tx-bound copy is handed to the callback.
type BookingRepo struct {
	db *sql.DB
	q  queryer
}

// NewBookingRepo constructs a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, q: db}
}

var _ booking.Store = (*BookingRepo)(nil)

const bookingColumns = `id, car_id, renter_id, start_date, end_date, status, days, total_fils, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var status string
	err := row.Scan(&b.ID, &b.CarID, &b.RenterID, &b.StartDate, &b.EndDate, &status,
		&b.Days, &b.TotalFils, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status, err = model.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Car loads a listed car for the booking core. Delisted and missing
// cars both surface as booking.ErrCarNotFound.
func (r *BookingRepo) Car(ctx context.Context, id uint64) (*model.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = ? AND status = ?`
	var c model.Car
	err := r.q.QueryRowContext(ctx, q, id, model.CarStatusListed).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.City, &c.DailyRateFils,
		&c.Status, &c.AvailableFrom, &c.AvailableTo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Booking loads a booking by ID for the booking core.
func (r *BookingRepo) Booking(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	return b, err
}

// SlotHoldingBookings returns the bookings on the car whose status
// still reserves their date range, optionally excluding one booking.
func (r *BookingRepo) SlotHoldingBookings(ctx context.Context, carID, excludeID uint64) ([]model.Booking, error) {
	statuses := model.SlotHoldingStatuses()
	ph := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := []any{carID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE car_id = ? AND status IN (` + ph + `)`
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.CarID, &b.RenterID, &b.StartDate, &b.EndDate, &status,
			&b.Days, &b.TotalFils, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if b.Status, err = model.ParseBookingStatus(status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBooking inserts a booking and re-reads the row to populate
// the generated ID and timestamps.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (car_id, renter_id, start_date, end_date, status, days, total_fils) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, b.CarID, b.RenterID,
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout),
		string(b.Status), b.Days, b.TotalFils)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(r.q.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// UpdateBookingStatus compare-and-swaps the status column. The write
// only lands if the row still carries the expected current status.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// WithCarLock opens a transaction, takes a row lock on the car and
// runs fn with a tx-bound copy of the repo. The lock serializes
// concurrent creates for the same car so the availability check and
// the insert behave as one atomic unit.
func (r *BookingRepo) WithCarLock(ctx context.Context, carID uint64, fn func(booking.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var locked uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM cars WHERE id = ? FOR UPDATE`, carID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrCarNotFound
	}
	if err != nil {
		return err
	}
	if err := fn(&BookingRepo{db: r.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookingDetail is a booking joined with its car for list endpoints.
type BookingDetail struct {
	ID        uint64  `json:"id"`
	CarID     uint64  `json:"car_id"`
	CarTitle  string  `json:"car_title"`
	City      string  `json:"city"`
	RenterID  uint64  `json:"renter_id"`
	OwnerID   uint64  `json:"owner_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Days      int64   `json:"days"`
	TotalFils int64   `json:"total_fils"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

const bookingDetailSelect = `SELECT
		b.id, b.car_id, c.title, c.city, b.renter_id, c.owner_id,
		DATE_FORMAT(b.start_date, '%Y-%m-%d'),
		DATE_FORMAT(b.end_date, '%Y-%m-%d'),
		b.status, b.days, b.total_fils,
		DATE_FORMAT(b.created_at, '%Y-%m-%dT%H:%i:%sZ')
	FROM bookings b
	JOIN cars c ON c.id = b.car_id`

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BookingDetail{}
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.CarID, &d.CarTitle, &d.City, &d.RenterID, &d.OwnerID,
			&d.StartDate, &d.EndDate, &d.Status, &d.Days, &d.TotalFils, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Total = float64(d.TotalFils) / 100
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByRenter returns the renter's bookings, newest first.
func (r *BookingRepo) ListByRenter(ctx context.Context, renterID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, bookingDetailSelect+` WHERE b.renter_id = ? ORDER BY b.created_at DESC`, renterID)
}

// ListByOwner returns bookings placed against any of the owner's
// cars, newest first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, bookingDetailSelect+` WHERE c.owner_id = ? ORDER BY b.created_at DESC`, ownerID)
}

// ListDueForCompletion returns CONFIRMED or ACTIVE bookings whose end
// date has passed. The scheduler feeds these through the booking
// core's system transition.
func (r *BookingRepo) ListDueForCompletion(ctx context.Context) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE status IN (?, ?) AND end_date <= CURDATE()`
	rows, err := r.q.QueryContext(ctx, q, string(model.BookingConfirmed), string(model.BookingActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.CarID, &b.RenterID, &b.StartDate, &b.EndDate, &status,
			&b.Days, &b.TotalFils, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if b.Status, err = model.ParseBookingStatus(status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
