package dto

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse is returned when the duplicate guard rejects a creation;
// it points the caller at the request already occupying the active slot.
type ConflictResponse struct {
	Error          string `json:"error"`
	ExistingID     int64  `json:"existing_id"`
	ExistingStatus string `json:"existing_status"`
}
