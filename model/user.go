package model

type User struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// UserPatch carries a partial update: nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}
