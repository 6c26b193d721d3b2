package overlay_test

import (
	"fmt"

	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/overlay"
	"github.com/bailus/pinpoint/pkg/viewport"
)

// Anchor a popup to a coordinate and react to camera moves.
func Example() {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)

	e := overlay.New(cam, overlay.Options{
		Offset: overlay.RadiusOffset(10),
	})
	e.OnPlacement(func(pl overlay.Placement) {
		fmt.Printf("%s at (%.0f, %.0f)\n", pl.Anchor, pl.Pos.X, pl.Pos.Y)
	})

	e.Attach()
	defer e.Detach()

	e.SetContentSize(120, 60)
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})

	// Panning the camera re-places the overlay automatically.
	cam.PanBy(100, 0)

	// Output:
	// bottom at (400, 290)
	// bottom at (300, 290)
}

// Resolve a scalar radius into a full offset map.
func ExampleRadiusOffset() {
	m := overlay.RadiusOffset(10).Resolve()
	fmt.Println(m.At(overlay.AnchorTop))
	fmt.Println(m.At(overlay.AnchorTopLeft))
	// Output:
	// {0 10}
	// {7 7}
}
