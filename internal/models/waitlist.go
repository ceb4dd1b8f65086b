package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// SourceCareersWaitlist tags records captured by the careers page form.
const SourceCareersWaitlist = "careers-waitlist"

// TimestampLayout matches the ISO-8601 form browsers produce with toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Layouts accepted for stored timestamps besides RFC 3339. Zoneless values are
// read in the caller's location.
var (
	zonedLayouts    = []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"}
	zonelessLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04", "2006-01-02 15:04:05"}
	dateOnlyLayout  = time.DateOnly
)

// WaitlistRecord is one captured signup. Records are never mutated once written;
// the only way to remove one is to overwrite the whole list.
//
// A stored element that is not exactly {email, timestamp, source} with string
// values keeps its original bytes, and those bytes are what gets written back.
type WaitlistRecord struct {
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`

	raw json.RawMessage
}

type plainRecord struct {
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// NewWaitlistRecord stamps a careers-page signup at the given instant.
func NewWaitlistRecord(email string, at time.Time) WaitlistRecord {
	return WaitlistRecord{
		Email:     email,
		Timestamp: at.UTC().Format(TimestampLayout),
		Source:    SourceCareersWaitlist,
	}
}

// Preserved reports whether the record carries stored bytes that the three
// fields cannot represent.
func (r WaitlistRecord) Preserved() bool {
	return r.raw != nil
}

// UnmarshalJSON never fails on valid JSON: fields that are not strings are
// left blank, except numeric timestamps which keep their digits.
func (r *WaitlistRecord) UnmarshalJSON(data []byte) error {
	*r = WaitlistRecord{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		if !json.Valid(data) {
			return err
		}
		r.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	exact := len(fields) == 3
	for key, target := range map[string]*string{"email": &r.Email, "timestamp": &r.Timestamp, "source": &r.Source} {
		value, ok := fields[key]
		if !ok {
			exact = false
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			exact = false
			if key == "timestamp" {
				if n := bytes.TrimSpace(value); len(n) > 0 && (n[0] == '-' || (n[0] >= '0' && n[0] <= '9')) {
					*target = string(n)
				}
			}
		}
	}

	if !exact {
		r.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

func (r WaitlistRecord) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(plainRecord{Email: r.Email, Timestamp: r.Timestamp, Source: r.Source})
}

// ParsedTimestamp returns the record time, or false when the stored value is
// not a recognised timestamp. Zoneless values are read in loc (UTC when nil);
// date-only values are UTC midnight and integers are Unix milliseconds.
func (r WaitlistRecord) ParsedTimestamp(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(dateOnlyLayout, r.Timestamp); err == nil {
		return t, true
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, r.Timestamp, loc); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(r.Timestamp, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}
