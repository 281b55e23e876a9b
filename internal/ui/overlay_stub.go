//go:build !ebiten

package ui

// None marks preview cells that should not be drawn.
const None = 0xff

// OverlayOptions mirrors the GUI build's drawing options.
type OverlayOptions struct {
	GridStep int
	Palette  bool
}

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(any, bool) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, OverlayOptions) {}
