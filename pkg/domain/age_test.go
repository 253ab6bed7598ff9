package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeAge(t *testing.T) {
	asOf := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		birth  string
		want   int
		wantOK bool
	}{
		{"18/10/2000", 26, true},
		{"19/10/2000", 25, true},
		{"29/02/2008", 18, true},
		{"18/10/2026", 0, true},
		{"19/10/2026", 0, false},
		{"2000-10-18", 0, false},
		{"31/02/2000", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ComputeAge(tc.birth, asOf)
		assert.Equal(t, tc.wantOK, ok, tc.birth)
		assert.Equal(t, tc.want, got, tc.birth)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2026", FormatDate(time.Date(2026, time.March, 5, 23, 0, 0, 0, time.UTC)))
}
