package services

import "errors"

// Errors shared across services and the HTTP error mapping. Stage and draw
// violations surface as the engine package's sentinels and are mapped
// separately.
var (
	// Signup validation and conflicts
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrPhoneConflict = errors.New("phone is already registered")

	// Receipt uploads
	ErrUploadsDisabled     = errors.New("receipt uploads are not configured")
	ErrUnsupportedFileType = errors.New("unsupported receipt file type")
	ErrReceiptMissing      = errors.New("no receipt uploaded for this inscription")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Tournament lifecycle
	ErrNotEnoughParticipants = errors.New("not enough paid inscriptions to form teams")

	// Entity lookups. Match lookups surface engine.ErrMatchNotFound, since the
	// engine resolves match ids against the loaded state.
	ErrInscriptionNotFound = errors.New("inscription not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
)
