package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleTimeUnmarshal(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"rfc3339", `"2024-03-01T12:00:00Z"`},
		{"rfc3339 with offset", `"2024-03-01T14:00:00+02:00"`},
		{"epoch millis", `1709294400000`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexibleTime
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ft))
			assert.True(t, ft.Equal(want), "got %s", ft.Time)
			assert.Equal(t, time.UTC, ft.Location())
		})
	}
}

func TestFlexibleTimeRejectsGarbage(t *testing.T) {
	var ft FlexibleTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`true`), &ft))
}

func TestReadingRequestOptionalTimestamp(t *testing.T) {
	var req ReadingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"value": 120}`), &req))
	require.NotNil(t, req.Value)
	assert.Equal(t, 120.0, *req.Value)
	assert.Nil(t, req.Timestamp)
}

func TestAllergenListAcceptsBothForms(t *testing.T) {
	var fromString AllergenList
	require.NoError(t, json.Unmarshal([]byte(`"peanut, milk"`), &fromString))
	assert.Equal(t, AllergenList{"peanut", " milk"}, fromString)

	var fromArray AllergenList
	require.NoError(t, json.Unmarshal([]byte(`["peanut","milk"]`), &fromArray))
	assert.Equal(t, AllergenList{"peanut", "milk"}, fromArray)

	var bad AllergenList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestParseFlexibleTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseFlexibleTime("1709294400000")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseFlexibleTime("2024-03-01T13:00:00+01:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
	assert.Equal(t, time.UTC, got.Location())

	_, err = ParseFlexibleTime("yesterday")
	assert.Error(t, err)
}
