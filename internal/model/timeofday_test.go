package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("0930")
	assert.Error(t, err)
}

func TestTimeOfDayZeroIsUnset(t *testing.T) {
	var tod TimeOfDay
	assert.True(t, tod.IsZero())

	tod, err := ParseTimeOfDay("00:01")
	require.NoError(t, err)
	assert.False(t, tod.IsZero())
}

func TestTimeOfDayOnDate(t *testing.T) {
	tod, err := ParseTimeOfDay("14:45")
	require.NoError(t, err)

	date := time.Date(2024, 6, 3, 9, 12, 33, 0, time.UTC)
	got := tod.OnDate(date)

	assert.Equal(t, time.Date(2024, 6, 3, 14, 45, 0, 0, time.UTC), got)
}

func TestTimeOfDayJSON(t *testing.T) {
	tod, err := ParseTimeOfDay("08:15")
	require.NoError(t, err)

	data, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"08:15"`, string(data))

	var back TimeOfDay
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tod, back)
}
