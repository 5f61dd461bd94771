package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mins(h, m int) TimeOfDay { return TimeOfDay(h*60 + m) }

func TestWindowInputWellFormed(t *testing.T) {
	tests := []struct {
		name string
		in   WindowInput
		want bool
	}{
		{"valid", WindowInput{Day: 1, Start: mins(9, 0), End: mins(12, 0)}, true},
		{"unknown day", WindowInput{Day: 7, Start: mins(9, 0), End: mins(12, 0)}, false},
		{"negative day", WindowInput{Day: -1, Start: mins(9, 0), End: mins(12, 0)}, false},
		{"missing start", WindowInput{Day: 1, End: mins(12, 0)}, false},
		{"missing end", WindowInput{Day: 1, Start: mins(9, 0)}, false},
		{"start equals end", WindowInput{Day: 1, Start: mins(9, 0), End: mins(9, 0)}, false},
		{"start after end", WindowInput{Day: 1, Start: mins(14, 0), End: mins(9, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.WellFormed())
		})
	}
}

func TestWindowInputOverlaps(t *testing.T) {
	accepted := AvailabilityWindow{
		Day:   time.Monday,
		Start: mins(9, 0),
		End:   mins(12, 0),
	}

	tests := []struct {
		name string
		in   WindowInput
		want bool
	}{
		{"starts inside", WindowInput{Day: 1, Start: mins(10, 0), End: mins(13, 0)}, true},
		{"ends inside", WindowInput{Day: 1, Start: mins(8, 0), End: mins(10, 0)}, true},
		{"fully contains", WindowInput{Day: 1, Start: mins(8, 0), End: mins(13, 0)}, true},
		{"fully contained", WindowInput{Day: 1, Start: mins(10, 0), End: mins(11, 0)}, true},
		{"identical", WindowInput{Day: 1, Start: mins(9, 0), End: mins(12, 0)}, true},
		{"adjacent after", WindowInput{Day: 1, Start: mins(12, 0), End: mins(14, 0)}, false},
		{"adjacent before", WindowInput{Day: 1, Start: mins(8, 0), End: mins(9, 0)}, false},
		{"different day", WindowInput{Day: 2, Start: mins(10, 0), End: mins(11, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Overlaps(accepted))
		})
	}
}
