package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexibleTime accepts an RFC3339 string or epoch milliseconds.
type FlexibleTime struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (f *FlexibleTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp must be RFC3339 or epoch milliseconds: %w", err)
		}
		f.Time = t.UTC()
		return nil
	}

	var ms json.Number
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp must be RFC3339 or epoch milliseconds: %w", err)
	}
	n, err := ms.Int64()
	if err != nil {
		fl, ferr := ms.Float64()
		if ferr != nil {
			return fmt.Errorf("invalid epoch timestamp %s", ms)
		}
		n = int64(fl)
	}
	f.Time = time.UnixMilli(n).UTC()
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (f FlexibleTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time.UTC().Format(time.RFC3339Nano))
}

// ParseFlexibleTime parses a query-string timestamp in either accepted form.
func ParseFlexibleTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be RFC3339 or epoch milliseconds: %w", err)
	}
	return t.UTC(), nil
}

// AllergenList accepts either a JSON array of names or a comma-separated string.
type AllergenList []string

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *AllergenList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AllergenList(strings.Split(s, ","))
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("allergies must be a list or a comma-separated string: %w", err)
	}
	*a = AllergenList(list)
	return nil
}
