package overlay

import (
	"testing"

	"github.com/bailus/pinpoint/pkg/geo"
)

func TestSelectAnchor(t *testing.T) {
	view := geo.Size{Width: 800, Height: 600}
	content := geo.Size{Width: 100, Height: 50}
	zero := NoOffset().Resolve()

	tests := []struct {
		name string
		pos  geo.Point
		want Anchor
	}{
		{
			name: "interior point hangs below",
			pos:  geo.Point{X: 400, Y: 300},
			want: AnchorBottom,
		},
		{
			name: "near top-left corner",
			pos:  geo.Point{X: 10, Y: 10},
			want: AnchorTopLeft,
		},
		{
			name: "near top edge only",
			pos:  geo.Point{X: 400, Y: 10},
			want: AnchorTop,
		},
		{
			name: "near bottom edge only",
			pos:  geo.Point{X: 400, Y: 590},
			want: AnchorBottom,
		},
		{
			name: "near left edge only",
			pos:  geo.Point{X: 20, Y: 300},
			want: AnchorLeft,
		},
		{
			name: "near right edge only",
			pos:  geo.Point{X: 780, Y: 300},
			want: AnchorRight,
		},
		{
			name: "near bottom-right corner",
			pos:  geo.Point{X: 790, Y: 580},
			want: AnchorBottomRight,
		},
		{
			name: "near top-right corner",
			pos:  geo.Point{X: 790, Y: 20},
			want: AnchorTopRight,
		},
		{
			name: "near bottom-left corner",
			pos:  geo.Point{X: 10, Y: 580},
			want: AnchorBottomLeft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectAnchor(tt.pos, zero, content, view); got != tt.want {
				t.Errorf("SelectAnchor(%v) = %s, want %s", tt.pos, got, tt.want)
			}
		})
	}
}

func TestSelectAnchorRespectsBottomOffset(t *testing.T) {
	view := geo.Size{Width: 800, Height: 600}
	content := geo.Size{Width: 100, Height: 50}

	// A large downward bottom offset leaves too little room above the
	// point, flipping the vertical component to "top".
	offsets := PerAnchorOffset(map[Anchor]geo.Point{
		AnchorBottom: {X: 0, Y: -30},
	}).Resolve()

	pos := geo.Point{X: 400, Y: 70}
	if got := SelectAnchor(pos, offsets, content, view); got != AnchorTop {
		t.Errorf("SelectAnchor = %s, want top", got)
	}

	// Without the offset the point clears the content height.
	if got := SelectAnchor(pos, NoOffset().Resolve(), content, view); got != AnchorBottom {
		t.Errorf("SelectAnchor without offset = %s, want bottom", got)
	}
}
