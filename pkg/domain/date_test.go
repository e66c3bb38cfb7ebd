package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "docket/pkg/domain-errors"
)

func TestDateArithmetic(t *testing.T) {
	t.Run("adds days across month and year boundaries", func(t *testing.T) {
		assert.Equal(t, NewDate(2024, time.February, 1), NewDate(2024, time.January, 31).AddDays(1))
		assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
		assert.Equal(t, NewDate(2025, time.January, 4), NewDate(2024, time.December, 30).AddDays(5))
	})

	t.Run("zero days is identity", func(t *testing.T) {
		d := NewDate(2024, time.January, 1)
		assert.True(t, d.AddDays(0).Equal(d))
	})

	t.Run("daylight saving transitions do not shift dates", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		base := DateOf(time.Date(2024, time.March, 9, 23, 30, 0, 0, loc))
		assert.Equal(t, "2024-03-11", base.AddDays(2).String())
	})
}

func TestDateOfUsesWallClock(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	lateEvening := time.Date(2024, time.January, 6, 23, 59, 0, 0, saoPaulo)

	assert.Equal(t, "2024-01-06", DateOf(lateEvening).String())
	assert.Equal(t, "2024-01-07", DateIn(lateEvening, time.UTC).String())
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestDateComparisonIgnoresTimeOfDay(t *testing.T) {
	a := DateOf(time.Date(2024, time.January, 6, 0, 0, 1, 0, time.UTC))
	b := DateOf(time.Date(2024, time.January, 6, 23, 59, 59, 0, time.UTC))
	assert.True(t, a.Equal(b))
	assert.False(t, a.After(b))
	assert.False(t, a.Before(b))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.January, 6), d)

	_, err = ParseDate("06/01/2024")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Deadline Date `json:"deadline"`
		Missing  Date `json:"missing"`
	}
	body, err := json.Marshal(payload{Deadline: NewDate(2024, time.January, 6)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"deadline":"2024-01-06","missing":null}`, string(body))

	var decoded payload
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, NewDate(2024, time.January, 6), decoded.Deadline)
	assert.True(t, decoded.Missing.IsZero())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	require.NoError(t, d.Scan([]byte("2023-12-31")))
	assert.Equal(t, NewDate(2023, time.December, 31), d)

	assert.Error(t, d.Scan(42))
}
