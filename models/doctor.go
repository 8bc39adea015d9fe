package models

// Doctor is the profile of a user with role "doctor".
// user_id has a one-to-one relation to User.
type Doctor struct {
	ID             int64  `db:"id" json:"id"`
	UserID         int64  `db:"user_id" json:"user_id"`
	FIO            string `db:"fio" json:"fio"`
	Specialization string `db:"specialization" json:"specialization"`
}

// DoctorView is the directory entry shown to patients and administrators.
type DoctorView struct {
	ID             int64  `json:"id"`
	FIO            string `json:"fio"`
	Specialization string `json:"specialization"`
}

// View projects d into a directory entry.
func (d *Doctor) View() DoctorView {
	return DoctorView{ID: d.ID, FIO: d.FIO, Specialization: d.Specialization}
}
