package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localLayout is the zone-less form clients send for booking bounds.
const localLayout = "2006-01-02T15:04:05"

// DateTime accepts RFC 3339 timestamps as well as zone-less
// "2006-01-02T15:04:05" values, which are read as UTC. Booking rules compare
// these against the server clock converted to UTC, so clients in other zones
// should send an explicit offset.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.ParseInLocation(localLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid datetime %q", raw)
	}
	d.Time = t
	return nil
}
