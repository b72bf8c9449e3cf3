package errors

import "net/http"

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrChargerNotFound = New(
		"CHARGER_NOT_FOUND",
		"EV charger not found",
		http.StatusNotFound,
	)

	ErrDocumentNotFound = New(
		"DOCUMENT_NOT_FOUND",
		"Search document not found",
		http.StatusNotFound,
	)

	ErrDuplicateLocation = New(
		"DUPLICATE_LOCATION",
		"Location with this external id already exists",
		http.StatusConflict,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidSchedule = New(
		"INVALID_SCHEDULE",
		"Invalid working day schedule",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	// ErrIndexSyncFailed is raised after the relational write has already
	// committed. The caller sees the failure but the row stays; a resync
	// repairs the index.
	ErrIndexSyncFailed = New(
		"INDEX_SYNC_FAILED",
		"Search index update failed, index may be stale until next resync",
		http.StatusInternalServerError,
	)

	ErrSearchError = New(
		"SEARCH_ERROR",
		"Search index query failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
