package stickr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlacement_Apply(t *testing.T) {
	tests := []struct {
		name   string
		p      Placement
		in     [2]float64
		expect [2]float64
	}{
		{"identity", Identity(), [2]float64{3, 4}, [2]float64{3, 4}},
		{"translate", Translate(10, -5), [2]float64{1, 1}, [2]float64{11, -4}},
		{"scale", Scale(2.5), [2]float64{2, 4}, [2]float64{5, 10}},
		{"rotate quarter turn", Rotate(math.Pi / 2), [2]float64{1, 0}, [2]float64{0, 1}},
		{"rotate half turn", Rotate(math.Pi), [2]float64{1, 2}, [2]float64{-1, -2}},
		{"translate scale rotate", NewPlacement(10, 20, 2, math.Pi/2), [2]float64{1, 0}, [2]float64{10, 22}},
		{"origin stays at position", NewPlacement(150, 150, 3, 1.1), [2]float64{0, 0}, [2]float64{150, 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.p.Apply(tt.in[0], tt.in[1])
			assert.InDelta(t, tt.expect[0], x, 1e-9)
			assert.InDelta(t, tt.expect[1], y, 1e-9)
		})
	}
}

func TestPlacement_MulOrder(t *testing.T) {
	assert := assert.New(t)

	x, _ := Translate(1, 0).Mul(Scale(2)).Apply(1, 0)
	assert.InDelta(3, x, 1e-9)

	x, _ = Scale(2).Mul(Translate(1, 0)).Apply(1, 0)
	assert.InDelta(4, x, 1e-9)

	p := NewPlacement(7, 8, 1.5, 0.3)
	assert.Equal(p, p.Mul(Identity()))
	assert.Equal(p, Identity().Mul(p))
}
