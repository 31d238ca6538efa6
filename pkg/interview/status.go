package interview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Status is the lifecycle state of a session. Transitions happen on the
// backend; the client only observes them.
type Status int

const (
	StatusCreated Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled

	StatusUnknown Status = -1
)

var statusNames = map[Status]string{
	StatusCreated:    "CREATED",
	StatusInProgress: "IN_PROGRESS",
	StatusCompleted:  "COMPLETED",
	StatusCancelled:  "CANCELLED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsInProgress reports whether questions can be streamed for the session.
func (s Status) IsInProgress() bool {
	return s == StatusInProgress
}

// IsCompleted reports whether the session has finished.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// ParseStatus accepts either the numeric or the symbolic form.
func ParseStatus(v string) Status {
	if n, err := strconv.Atoi(v); err == nil {
		if _, ok := statusNames[Status(n)]; ok {
			return Status(n)
		}
		return StatusUnknown
	}

	for s, name := range statusNames {
		if name == v {
			return s
		}
	}

	return StatusUnknown
}

// UnmarshalJSON decodes a status sent either as a number or as a string.
func (s *Status) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = StatusCreated
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = ParseStatus(v)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	*s = ParseStatus(strconv.Itoa(n))

	return nil
}

// MarshalJSON encodes the numeric form, which is what the backend emits.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// Timestamp is a backend date-time. The backend serializes local date-times
// either as an ISO-like string or as a [year, month, day, hour, minute,
// second, nanos] array.
type Timestamp struct {
	time.Time
}

const localDateTime = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	localDateTime,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("decoding timestamp array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("timestamp array needs at least 3 elements, got %d", len(parts))
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.Local)
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if v == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, v, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", v)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localDateTime))
}
