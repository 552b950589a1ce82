package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomIntBetweenInclusive(t *testing.T) {
	type args struct {
		min, max       int
		isMinInclusive bool
		isMaxInclusive bool
	}
	tests := []struct {
		name      string
		args      args
		wantMin   int
		wantMax   int
		wantPanic bool
	}{
		{
			name:      "equal bounds with only min inclusive panics",
			args:      args{min: 3, max: 3, isMinInclusive: true, isMaxInclusive: false},
			wantPanic: true,
		},
		{
			name:      "equal bounds with only max inclusive panics",
			args:      args{min: 3, max: 3, isMinInclusive: false, isMaxInclusive: true},
			wantPanic: true,
		},
		{
			name:      "min greater than max panics",
			args:      args{min: 5, max: 3, isMinInclusive: true, isMaxInclusive: true},
			wantPanic: true,
		},
		{
			name:      "exclusive range too narrow panics",
			args:      args{min: 2, max: 3, isMinInclusive: false, isMaxInclusive: false},
			wantPanic: true,
		},
		{
			name:    "both bounds inclusive",
			args:    args{min: 2, max: 5, isMinInclusive: true, isMaxInclusive: true},
			wantMin: 2,
			wantMax: 5,
		},
		{
			name:    "only min inclusive",
			args:    args{min: 2, max: 5, isMinInclusive: true, isMaxInclusive: false},
			wantMin: 2,
			wantMax: 4,
		},
		{
			name:    "only max inclusive",
			args:    args{min: 2, max: 5, isMinInclusive: false, isMaxInclusive: true},
			wantMin: 3,
			wantMax: 5,
		},
		{
			name:    "neither bound inclusive",
			args:    args{min: 2, max: 6, isMinInclusive: false, isMaxInclusive: false},
			wantMin: 3,
			wantMax: 5,
		},
		{
			name:    "equal bounds with both inclusive",
			args:    args{min: 3, max: 3, isMinInclusive: true, isMaxInclusive: true},
			wantMin: 3,
			wantMax: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantPanic {
				assert.Panics(t, func() {
					RandomIntBetweenInclusive(tt.args.min, tt.args.max, tt.args.isMinInclusive, tt.args.isMaxInclusive)
				})
				return
			}

			assert.NotPanics(t, func() {
				values := make(map[int]bool)
				for i := 0; i < 100; i++ {
					got := RandomIntBetweenInclusive(tt.args.min, tt.args.max, tt.args.isMinInclusive, tt.args.isMaxInclusive)
					assert.GreaterOrEqual(t, got, tt.wantMin)
					assert.LessOrEqual(t, got, tt.wantMax)
					values[got] = true
				}
				if tt.wantMin != tt.wantMax {
					assert.Len(t, values, tt.wantMax-tt.wantMin+1, "expected every value in range to appear across 100 draws")
				}
			})
		})
	}
}
