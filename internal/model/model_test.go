package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialsFromName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "??"},
		{name: "blank", in: "   ", want: "??"},
		{name: "single letter", in: "x", want: "X"},
		{name: "single word", in: "alice", want: "AL"},
		{name: "two words", in: "Alice Jones", want: "AJ"},
		{name: "middle names ignored", in: "Jan van der Berg", want: "JB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitialsFromName(tt.in))
		})
	}
}

func TestPersonLabel(t *testing.T) {
	assert.Equal(t, "AJ", Person{DisplayName: "Alice Jones"}.Label())
	assert.Equal(t, "Ali", Person{DisplayName: "Alice Jones", Initials: "Ali"}.Label(), "explicit initials win")
	assert.Equal(t, "AJ", Person{DisplayName: "Alice Jones", Initials: "  "}.Label(), "blank initials fall back to derivation")
}

func TestHourWindow(t *testing.T) {
	w := HourWindow{Start: 8, End: 22}
	assert.Equal(t, 840, w.Minutes())
	assert.Equal(t, 28, w.Slots())
}
