// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published on every booking status change (creation
// included). It carries enough information for downstream consumers to
// log, notify owner and renter, or trigger analytics without querying
// the primary database.
type BookingEvent struct {
	BookingID  uint64 `json:"booking_id"`
	CarID      uint64 `json:"car_id"`
	CarTitle   string `json:"car_title"`
	City       string `json:"city"`
	OwnerID    uint64 `json:"owner_id"`
	RenterID   uint64 `json:"renter_id"`
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Days       int64  `json:"days"`
	TotalFils  int64  `json:"total_fils"`
	OccurredAt string `json:"occurred_at"`
}
