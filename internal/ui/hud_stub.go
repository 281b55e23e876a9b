//go:build !ebiten

package ui

import "cartedit/internal/core"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.ParameterProvider, int, string) *HUD { return nil }

// Contains always reports false in the headless build.
func (h *HUD) Contains(int) bool { return false }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
