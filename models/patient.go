package models

// Patient is the profile of a user with role "patient".
type Patient struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	FIO    string `db:"fio" json:"fio"`
	Phone  string `db:"phone" json:"phone"`
}
