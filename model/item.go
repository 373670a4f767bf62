// model/item.go
package model

import "time"

type Item struct {
	ID          int64  `db:"id" json:"id"`
	OwnerID     int64  `db:"owner_id" json:"ownerId"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Available   bool   `db:"available" json:"available"`
	RequestID   *int64 `db:"request_id" json:"requestId,omitempty"`
}

type Comment struct {
	ID       int64     `db:"id" json:"id"`
	ItemID   int64     `db:"item_id" json:"itemId"`
	AuthorID int64     `db:"author_id" json:"authorId"`
	Text     string    `db:"text" json:"text"`
	Created  time.Time `db:"created" json:"created"`
}
