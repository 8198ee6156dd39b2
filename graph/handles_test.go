package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleAt(t *testing.T) {
	n := &Node{X: 100, Y: 100, Width: 200, Height: 100}

	tests := []struct {
		name string
		p    Point
		want Handle
	}{
		{"interior", Point{X: 200, Y: 150}, HandleNone},
		{"far outside", Point{X: 0, Y: 0}, HandleNone},
		{"just past tolerance", Point{X: 100, Y: 93}, HandleNone},

		{"nw corner", Point{X: 100, Y: 100}, HandleNW},
		{"ne corner", Point{X: 300, Y: 100}, HandleNE},
		{"sw corner", Point{X: 100, Y: 200}, HandleSW},
		{"se corner", Point{X: 300, Y: 200}, HandleSE},
		{"nw just outside", Point{X: 96, Y: 96}, HandleNW},

		{"north edge", Point{X: 200, Y: 100}, HandleN},
		{"south edge", Point{X: 200, Y: 200}, HandleS},
		{"west edge", Point{X: 100, Y: 150}, HandleW},
		{"east edge", Point{X: 300, Y: 150}, HandleE},
		{"north band above", Point{X: 200, Y: 95}, HandleN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandleAt(n, tt.p))
		})
	}
}

func TestHandleCornersBeatEdges(t *testing.T) {
	n := &Node{X: 0, Y: 0, Width: 200, Height: 100}
	// Within CornerSize of the top-left on both axes, also within the north
	// edge band.
	assert.Equal(t, HandleNW, HandleAt(n, Point{X: 10, Y: 3}))
	assert.Equal(t, HandleSE, HandleAt(n, Point{X: 195, Y: 98}))
}
