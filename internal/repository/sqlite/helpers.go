package sqlite

import (
	"encoding/json"
	"time"
)

// Timestamps are stored as unix milliseconds; zero means "not set"
// (a graduated record's next_review_at, for instance).

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func marshalInts(vs []int) string {
	b, err := json.Marshal(vs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalInts(s string) []int {
	var vs []int
	if err := json.Unmarshal([]byte(s), &vs); err != nil {
		return nil
	}
	return vs
}

func marshalStrings(vs []string) string {
	if vs == nil {
		vs = []string{}
	}
	b, err := json.Marshal(vs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	var vs []string
	if err := json.Unmarshal([]byte(s), &vs); err != nil {
		return nil
	}
	return vs
}
