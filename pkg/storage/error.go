package storage

import "strconv"

// NotFoundError is returned when a session doesn't exist in the store.
type NotFoundError struct {
	SessionID int64
}

func (e NotFoundError) Error() string {
	if e.SessionID == 0 {
		return "session not found"
	}

	return "session not found: " + strconv.FormatInt(e.SessionID, 10)
}
