package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBetween(t *testing.T) {
	tests := []struct {
		name string
		d1   time.Time
		d2   time.Time
		want Diff
	}{
		{
			name: "one day short of a full year boundary",
			d1:   date(2024, time.March, 1),
			d2:   date(2000, time.March, 2),
			want: Diff{Years: 23, Months: 11, Days: 30},
		},
		{
			name: "exact birthday",
			d1:   date(2000, time.March, 2),
			d2:   date(2024, time.March, 2),
			want: Diff{Years: 24, Months: 0, Days: 0},
		},
		{
			name: "day after birthday",
			d1:   date(2000, time.March, 2),
			d2:   date(2024, time.March, 3),
			want: Diff{Years: 24, Months: 0, Days: 1},
		},
		{
			name: "same date",
			d1:   date(2024, time.June, 15),
			d2:   date(2024, time.June, 15),
			want: Diff{},
		},
		{
			name: "order does not matter",
			d1:   date(2024, time.March, 2),
			d2:   date(2000, time.March, 2),
			want: Diff{Years: 24, Months: 0, Days: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Between(tt.d1, tt.d2))
		})
	}
}

func TestBetweenLeapDayBoundary(t *testing.T) {
	// Born just before a leap day; the difference must borrow February's
	// 29 days from the leap starting year.
	d := Between(date(2000, time.February, 28), date(2024, time.February, 29))
	assert.Equal(t, 24, d.Years)

	d = Between(date(2000, time.February, 29), date(2024, time.February, 28))
	assert.Equal(t, 23, d.Years)
}

func TestYearsBetween(t *testing.T) {
	assert.Equal(t, 23, YearsBetween(date(2024, time.March, 1), date(2000, time.March, 2)))
	assert.Equal(t, 0, YearsBetween(date(2024, time.January, 1), date(2023, time.June, 1)))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
}
