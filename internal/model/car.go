package model

import "time"

// CarStatusListed and CarStatusDelisted are the two listing states a
// car can be in. A delisted car keeps its history but is hidden from
// public browse and cannot accept new bookings.
const (
	CarStatusListed   = "LISTED"
	CarStatusDelisted = "DELISTED"
)

// Car represents a vehicle listed for rent by an owner.  It
// corresponds to a row in the `cars` table.  Prices are stored in
// fils (AED minor units, 100 fils = 1 AED) so all money arithmetic
// stays integral.  AvailableFrom and AvailableTo bound the window
// in which bookings may be placed; both are DATE columns read back
// as UTC midnights.
//
// Fields:
//  ID            – primary key identifier.
//  OwnerID       – user ID of the car owner.
//  Title         – short listing title (e.g. "Nissan Patrol 2022").
//  Description   – free-form listing description.
//  City          – city where the car is available.
//  DailyRateFils – rental price per day in fils.
//  Status        – listing state (LISTED, DELISTED).
//  AvailableFrom – first day of the availability window (inclusive).
//  AvailableTo   – last day of the availability window (inclusive).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Car struct {
	ID            uint64    // cars.id
	OwnerID       uint64    // cars.owner_id
	Title         string    // cars.title
	Description   string    // cars.description
	City          string    // cars.city
	DailyRateFils int64     // cars.daily_rate_fils
	Status        string    // cars.status
	AvailableFrom time.Time // cars.available_from (DATE)
	AvailableTo   time.Time // cars.available_to (DATE)
	CreatedAt     time.Time // cars.created_at
	UpdatedAt     time.Time // cars.updated_at
}

// CarImage stores one uploaded photo of a car.  The image bytes live
// in Cloudinary; only the delivery URL is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  CarID     – car this image belongs to.
//  URL       – Cloudinary delivery URL.
//  CreatedAt – upload timestamp.
type CarImage struct {
	ID        uint64    // car_images.id
	CarID     uint64    // car_images.car_id
	URL       string    // car_images.url
	CreatedAt time.Time // car_images.created_at
}
