package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalAcceptsBothForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "calendar date", raw: `"2024-01-05"`, want: "2024-01-05"},
		{name: "rfc3339 utc", raw: `"2024-01-05T10:00:00.000Z"`, want: "2024-01-05"},
		{name: "rfc3339 offset", raw: `"2024-01-05T23:30:00-02:00"`, want: "2024-01-06"},
		{name: "empty", raw: `""`, want: ""},
		{name: "null", raw: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &d))
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"05/01/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240105`), &d))
}

func TestDate_MarshalsCalendarDate(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 5, 18, 45, 0, 0, time.UTC))
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-05"`, string(data))
}

func TestHolding_PurchaseDateRoundTrip(t *testing.T) {
	blob := `{"id":"abc","coinId":"bitcoin","amount":1,"buyPrice":10,"purchaseDate":"2024-01-05","addedAt":"2024-01-05T10:00:00.000Z"}`
	var h Holding
	require.NoError(t, json.Unmarshal([]byte(blob), &h))
	require.NotNil(t, h.PurchaseDate)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), h.PurchaseDate.Time)

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"purchaseDate":"2024-01-05"`)
}
