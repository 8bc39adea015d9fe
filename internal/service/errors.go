package service

// Error is the single domain error kind of the action layer. Callers tell
// errors apart by message (or errors.Is against the values below).
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError returns a domain error carrying msg.
func NewError(msg string) *Error { return &Error{Message: msg} }

var (
	ErrMissingFields       = NewError("not all fields were provided")
	ErrLoginTaken          = NewError("login is already taken")
	ErrInvalidCredentials  = NewError("invalid login or password")
	ErrDoctorNotFound      = NewError("doctor not found")
	ErrPatientNotFound     = NewError("patient not found")
	ErrAppointmentNotFound = NewError("appointment not found")
	ErrSlotTaken           = NewError("the selected time is already taken")
	ErrDateFormat          = NewError("date format: YYYY-MM-DD HH:MM")
	ErrInvalidStatus       = NewError("unknown appointment status")
)
