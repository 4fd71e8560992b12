package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected Status
	}{
		{name: "during", now: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), expected: StatusOngoing},
		{name: "before", now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), expected: StatusUpcoming},
		{name: "after", now: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), expected: StatusCompleted},
		{name: "at start", now: start, expected: StatusOngoing},
		{name: "at end", now: end, expected: StatusOngoing},
		{name: "just before start", now: start.Add(-time.Nanosecond), expected: StatusUpcoming},
		{name: "just after end", now: end.Add(time.Nanosecond), expected: StatusCompleted},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify(start, end, tt.now))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for s := -3; s <= 3; s++ {
		for e := -3; e <= 3; e++ {
			start := base.Add(time.Duration(s) * time.Hour)
			end := base.Add(time.Duration(e) * time.Hour)
			status := Classify(start, end, base)
			require.Contains(t, []Status{StatusUpcoming, StatusOngoing, StatusCompleted}, status)
		}
	}
}

func TestClassifyInvertedRange(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, StatusUpcoming, Classify(start, end, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, StatusCompleted, Classify(start, end, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)))
}
