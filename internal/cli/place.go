package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bailus/pinpoint/pkg/client"
	"github.com/bailus/pinpoint/pkg/config"
	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/overlay"
	"github.com/bailus/pinpoint/pkg/store"
	"github.com/bailus/pinpoint/pkg/viewport"
)

// placeOptions collects the camera and overlay flags for one-shot placement.
type placeOptions struct {
	// Camera state.
	lng    float64
	lat    float64
	zoom   float64
	width  float64
	height float64
	globe  bool

	// Single-overlay mode. The overlay anchors at the camera center unless
	// overridden.
	atLng         float64
	atLat         float64
	contentWidth  float64
	contentHeight float64
	anchor        string
	offsetRadius  float64
	subpixel      bool

	remote  string
	jsonOut bool
}

// placeCommand creates the place command for one-shot placement computation.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOptions

	cmd := &cobra.Command{
		Use:   "place [overlays.json]",
		Short: "Compute overlay placements for a camera",
		Long: `Compute overlay placements for a camera.

With an overlays.json argument every overlay in the file is placed against
the camera described by the flags. Without one a single overlay is placed,
anchored at --at-lng/--at-lat (default: the camera center).

With --remote the camera is sent to a running placement service instead and
the overlays registered there are placed.

The result lists the chosen anchor and the final screen position of each
overlay. Overlays without a measured content size are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if opts.remote != "" {
				return c.runPlaceRemote(cmd.Context(), opts)
			}
			return c.runPlace(input, opts, cmd.Flags().Changed("at-lng"), cmd.Flags().Changed("at-lat"))
		},
	}

	// Camera flags
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "camera center longitude")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "camera center latitude")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 2, "camera zoom level")
	cmd.Flags().Float64Var(&opts.width, "width", 1280, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 720, "viewport height in pixels")
	cmd.Flags().BoolVar(&opts.globe, "globe", false, "globe projection preview (enables occlusion)")

	// Overlay flags (single-overlay mode)
	cmd.Flags().Float64Var(&opts.atLng, "at-lng", 0, "overlay longitude (default: camera center)")
	cmd.Flags().Float64Var(&opts.atLat, "at-lat", 0, "overlay latitude (default: camera center)")
	cmd.Flags().Float64Var(&opts.contentWidth, "content-width", 240, "overlay content width in pixels")
	cmd.Flags().Float64Var(&opts.contentHeight, "content-height", 120, "overlay content height in pixels")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "force an anchor (default: automatic selection)")
	cmd.Flags().Float64Var(&opts.offsetRadius, "offset-radius", 0, "offset distance from the anchored point")
	cmd.Flags().BoolVar(&opts.subpixel, "subpixel", false, "keep subpixel positions instead of rounding")

	cmd.Flags().StringVar(&opts.remote, "remote", "", "placement service URL (e.g. http://localhost:8080)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit JSON instead of human-readable output")

	return cmd
}

// placeResult is the JSON shape emitted by --json.
type placeResult struct {
	ID        string             `json:"id,omitempty"`
	Placement *overlay.Placement `json:"placement,omitempty"`
	Skipped   bool               `json:"skipped,omitempty"`
}

// runPlace loads or builds the overlay set and places it.
func (c *CLI) runPlace(input string, opts placeOptions, atLngSet, atLatSet bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if err := errors.ValidateCamera(opts.lng, opts.lat, opts.zoom, opts.width, opts.height); err != nil {
		return err
	}

	var overlays []store.Overlay
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open %s: %w", input, err)
		}
		overlays, err = store.ReadJSON(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load overlays %s: %w", input, err)
		}
	} else {
		o, err := singleOverlay(opts, cfg.Overlay, atLngSet, atLatSet)
		if err != nil {
			return err
		}
		overlays = []store.Overlay{o}
	}

	prog := newProgress(c.Logger)
	view := viewport.New(geo.LngLat{Lng: opts.lng, Lat: opts.lat}, opts.zoom, opts.width, opts.height)
	view.SetGlobe(opts.globe)

	results := make([]placeResult, 0, len(overlays))
	placed, skipped := 0, 0
	for _, o := range overlays {
		eng := overlay.New(view, o.Options())
		eng.SetContentSize(o.Content.Width, o.Content.Height)
		eng.SetLngLat(o.Coordinate)

		res := placeResult{ID: o.ID}
		if pl, ok := eng.Recompute(); ok {
			res.Placement = &pl
			placed++
		} else {
			res.Skipped = true
			skipped++
		}
		results = append(results, res)
	}
	prog.done(fmt.Sprintf("Placed %d overlays", placed))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printSuccess("Placement complete")
	for _, r := range results {
		label := r.ID
		if label == "" {
			label = "overlay"
		}
		if r.Skipped {
			printDetail("%s: skipped (no content size)", label)
			continue
		}
		pos := r.Placement.Pos
		printDetail("%s: %s at (%g, %g)", label, r.Placement.Anchor, pos.X, pos.Y)
		if r.Placement.Opacity.Action == overlay.OpacitySet {
			printDetail("%s: occluded, opacity %g", label, r.Placement.Opacity.Value)
		}
	}
	if skipped > 0 {
		printWarning("%d overlays have no content size", skipped)
	}
	printPlacementStats(placed, skipped, false)

	return nil
}

// runPlaceRemote asks a running placement service to place its registered
// overlays under the camera flags.
func (c *CLI) runPlaceRemote(ctx context.Context, opts placeOptions) error {
	if err := errors.ValidateCamera(opts.lng, opts.lat, opts.zoom, opts.width, opts.height); err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	resp, err := client.New(opts.remote).Placements(ctx, client.Camera{
		Lng:    opts.lng,
		Lat:    opts.lat,
		Zoom:   opts.zoom,
		Width:  opts.width,
		Height: opts.height,
		Globe:  opts.globe,
	})
	if err != nil {
		printError("Remote placement failed")
		return fmt.Errorf("remote placement: %w", err)
	}

	placed, skipped := 0, 0
	results := make([]placeResult, 0, len(resp.Placements))
	for _, r := range resp.Placements {
		results = append(results, placeResult{ID: r.ID, Placement: r.Placement, Skipped: r.Skipped})
		if r.Skipped {
			skipped++
		} else {
			placed++
		}
	}
	prog.done(fmt.Sprintf("Placed %d overlays", placed))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printSuccess("Placement complete")
	for _, r := range results {
		if r.Skipped {
			printDetail("%s: skipped (no content size)", r.ID)
			continue
		}
		printDetail("%s: %s at (%g, %g)", r.ID, r.Placement.Anchor, r.Placement.Pos.X, r.Placement.Pos.Y)
	}
	if skipped > 0 {
		printWarning("%d overlays have no content size", skipped)
	}
	printPlacementStats(placed, skipped, resp.Cached)

	return nil
}

// singleOverlay builds one overlay record from flags, with config defaults.
func singleOverlay(opts placeOptions, defaults config.Overlay, atLngSet, atLatSet bool) (store.Overlay, error) {
	coord := geo.LngLat{Lng: opts.lng, Lat: opts.lat}
	if atLngSet {
		coord.Lng = opts.atLng
	}
	if atLatSet {
		coord.Lat = opts.atLat
	}

	anchorName := opts.anchor
	if anchorName == "" {
		anchorName = defaults.Anchor
	}
	anchor, err := overlay.ParseAnchor(anchorName)
	if err != nil {
		return store.Overlay{}, errors.Wrap(errors.ErrCodeInvalidAnchor, err, "parsing --anchor")
	}

	radius := opts.offsetRadius
	if radius == 0 {
		radius = defaults.OffsetRadius
	}

	o := store.Overlay{
		ID:         "overlay",
		Coordinate: coord,
		Content:    geo.Size{Width: opts.contentWidth, Height: opts.contentHeight},
		Anchor:     anchor,
		Subpixel:   opts.subpixel || defaults.Subpixel,
	}
	if radius != 0 {
		o.Offset.Radius = &radius
	}
	if defaults.OccludedOpacity != nil {
		o.OccludedOpacity = defaults.OccludedOpacity
	}
	return o, o.Validate()
}
