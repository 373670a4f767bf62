package model

import "time"

type ItemRequest struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	RequestorID int64     `db:"requestor_id" json:"requestorId"`
	Created     time.Time `db:"created" json:"created"`
}
