// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingWaiting  BookingStatus = "WAITING"
	BookingApproved BookingStatus = "APPROVED"
	BookingRejected BookingStatus = "REJECTED"
)

type Booking struct {
	ID        int64         `db:"id" json:"id"`
	ItemID    int64         `db:"item_id" json:"itemId"`
	BookerID  int64         `db:"booker_id" json:"bookerId"`
	StartTime time.Time     `db:"start_time" json:"start"`
	EndTime   time.Time     `db:"end_time" json:"end"`
	Status    BookingStatus `db:"status" json:"status"`
}
