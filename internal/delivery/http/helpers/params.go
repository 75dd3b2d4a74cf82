package helpers

import (
	"net/http"
	"strconv"
)

// ParseEventID reads the eventID path value as an unsigned integer. On
// failure it writes a 400 and returns false.
func ParseEventID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("eventID")
	if raw == "" {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "missing eventID")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "eventID must be a non-negative integer")
		return 0, false
	}
	return id, true
}
