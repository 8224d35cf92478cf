package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekPNGValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing URL", opts: Options{OutputPath: "out.png", Width: 100, Height: 100}},
		{name: "missing output path", opts: Options{URL: "http://127.0.0.1:8080/week.svg", Width: 100, Height: 100}},
		{name: "zero viewport", opts: Options{URL: "http://127.0.0.1:8080/week.svg", OutputPath: "out.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, WeekPNG(context.Background(), tt.opts))
		})
	}
}
