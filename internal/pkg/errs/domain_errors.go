package errs

// Error taxonomy shared by the scheduling usecases. Every failure that leaves
// the usecase layer is marked with exactly one of these.
var (
	ErrNotFound      = New("not found")
	ErrConflict      = New("time slot unavailable")
	ErrInvalidInput  = New("invalid input")
	ErrInvalidStatus = New("invalid status")
	ErrInternal      = New("internal error")
)
