// Package view maps between screen pixels and model cells for a pannable,
// zoomable canvas.
package view

import "math"

// FitFraction is how much of the viewport Fit lets the content occupy.
const FitFraction = 0.8

// Transform holds one canvas's zoom and pan. Screen = model*Zoom + Pan.
type Transform struct {
	Zoom    float64
	MinZoom float64
	MaxZoom float64

	PanX, PanY float64

	// ViewW/ViewH is the viewport in screen pixels; ContentW/ContentH is
	// the model size in cells. Margin is the number of screen pixels of
	// content that must stay visible on every side.
	ViewW, ViewH       float64
	ContentW, ContentH float64
	Margin             float64
}

// New returns a transform for content of the given size with zoom limits.
func New(contentW, contentH int, minZoom, maxZoom float64) *Transform {
	if minZoom <= 0 {
		minZoom = 1
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return &Transform{
		Zoom:     minZoom,
		MinZoom:  minZoom,
		MaxZoom:  maxZoom,
		ContentW: float64(contentW),
		ContentH: float64(contentH),
		Margin:   16,
	}
}

// ScreenToModel maps a screen point to the cell beneath it.
func (t *Transform) ScreenToModel(sx, sy float64) (int, int) {
	z := t.zoom()
	return int(math.Floor((sx - t.PanX) / z)), int(math.Floor((sy - t.PanY) / z))
}

// ModelToScreen maps a cell corner to screen space.
func (t *Transform) ModelToScreen(mx, my float64) (float64, float64) {
	z := t.zoom()
	return mx*z + t.PanX, my*z + t.PanY
}

// ClampZoom limits z to the transform's zoom range.
func (t *Transform) ClampZoom(z float64) float64 {
	return math.Min(math.Max(z, t.MinZoom), t.MaxZoom)
}

// ZoomAround changes the zoom while keeping the model point under the
// anchor fixed on screen.
func (t *Transform) ZoomAround(newZoom, ax, ay float64) {
	z := t.zoom()
	mx := (ax - t.PanX) / z
	my := (ay - t.PanY) / z
	t.Zoom = t.ClampZoom(newZoom)
	t.PanX = ax - mx*t.Zoom
	t.PanY = ay - my*t.Zoom
	t.clampPan()
}

// PanBy moves the content by a screen-space delta.
func (t *Transform) PanBy(dx, dy float64) {
	t.PanX += dx
	t.PanY += dy
	t.clampPan()
}

// Resize records a new viewport size and re-clamps the pan.
func (t *Transform) Resize(viewW, viewH float64) {
	t.ViewW, t.ViewH = viewW, viewH
	t.clampPan()
}

// Fit picks the largest zoom within limits at which the content covers at
// most FitFraction of the viewport, then centres it.
func (t *Transform) Fit(viewW, viewH, contentW, contentH float64) {
	t.ViewW, t.ViewH = viewW, viewH
	t.ContentW, t.ContentH = contentW, contentH
	if contentW <= 0 || contentH <= 0 {
		return
	}
	z := math.Min(viewW*FitFraction/contentW, viewH*FitFraction/contentH)
	t.Zoom = t.ClampZoom(z)
	t.PanX = (viewW - contentW*t.Zoom) / 2
	t.PanY = (viewH - contentH*t.Zoom) / 2
	t.clampPan()
}

func (t *Transform) zoom() float64 {
	if t.Zoom <= 0 {
		t.Zoom = t.ClampZoom(1)
	}
	return t.Zoom
}

// clampPan keeps at least Margin pixels of content inside the viewport.
// With no viewport recorded yet there is nothing to clamp against.
func (t *Transform) clampPan() {
	if t.ViewW <= 0 || t.ViewH <= 0 {
		return
	}
	t.PanX = clampAxis(t.PanX, t.ViewW, t.ContentW*t.zoom(), t.Margin)
	t.PanY = clampAxis(t.PanY, t.ViewH, t.ContentH*t.zoom(), t.Margin)
}

func clampAxis(pan, view, extent, margin float64) float64 {
	m := math.Min(margin, extent)
	hi := view - m
	lo := m - extent
	if lo > hi {
		return pan
	}
	return math.Min(math.Max(pan, lo), hi)
}
