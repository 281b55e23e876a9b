//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log"

	"cartedit/internal/codec"
	"cartedit/internal/engine"
	"cartedit/internal/export"
	"cartedit/internal/render"
	"cartedit/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts an Editor to the ebiten.Game interface.
type Game struct {
	cfg     *Config
	session *Session
	ed      *Editor
	hud     *ui.HUD
	overlay *ui.Overlay

	sheet *render.GridPainter
	tiles *render.GridPainter
	cells []uint8

	width, height int
	panX, panY    int
	panning       bool
}

// New constructs a Game editing the session's cartridge.
func New(cfg *Config, s *Session) *Game {
	ed := NewEditor(s.Engine, cfg.Width-cfg.HUDWidth, cfg.Height, nil)
	return &Game{
		cfg:     cfg,
		session: s,
		ed:      ed,
		hud:     ui.NewHUD(ed, cfg.HUDWidth, "Cart Editor"),
		overlay: ui.NewOverlay(ed, cfg.Grid),
		sheet:   render.NewGridPainter(codec.SheetW, codec.SheetH),
		tiles:   render.NewGridPainter(codec.MapW*codec.SpriteSize, codec.MapH*codec.SpriteSize),
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// Editor returns the editor driven by the game.
func (g *Game) Editor() *Editor { return g.ed }

// Update handles per-frame input.
func (g *Game) Update() error {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	mods := Mods{Shift: ebiten.IsKeyPressed(ebiten.KeyShift), Ctrl: ctrl}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) && !g.ed.dragging {
		return ebiten.Termination
	}
	g.handleKeys(mods)

	canvasW := g.width - g.cfg.HUDWidth
	g.hud.Update(canvasW)
	g.overlay.Update()
	g.handlePointer(mods, canvasW)
	return nil
}

var toolKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

func (g *Game) handleKeys(mods Mods) {
	for i, k := range toolKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.ed.SetTool(Tool(i))
		}
	}
	pressed := func(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

	if mods.Ctrl {
		switch {
		case pressed(ebiten.KeyZ) && mods.Shift, pressed(ebiten.KeyY):
			g.ed.Do(ActionRedo)
		case pressed(ebiten.KeyZ):
			g.ed.Do(ActionUndo)
		case pressed(ebiten.KeyC):
			g.ed.Do(ActionCopy)
		case pressed(ebiten.KeyX):
			g.ed.Do(ActionCut)
		case pressed(ebiten.KeyV) && mods.Shift:
			g.ed.Do(ActionPasteTransparent)
		case pressed(ebiten.KeyV):
			g.ed.Do(ActionPaste)
		case pressed(ebiten.KeyA):
			g.ed.Do(ActionSelectAll)
		case pressed(ebiten.KeyS):
			if err := g.session.Save(); err != nil {
				log.Printf("app: save: %v", err)
			}
		case pressed(ebiten.KeyE):
			cv := g.ed.Canvas()
			opts := export.Options{Scale: 4, Grid: g.cfg.Grid, Labels: cv == engine.CanvasPixels}
			if err := g.session.ExportPNG(cv, g.session.ExportPath(cv), opts); err != nil {
				log.Printf("app: export: %v", err)
			}
		}
		return
	}

	bindings := []struct {
		key    ebiten.Key
		action Action
	}{
		{ebiten.KeyH, ActionFlipH},
		{ebiten.KeyV, ActionFlipV},
		{ebiten.KeyR, ActionRotate},
		{ebiten.KeyDelete, ActionDelete},
		{ebiten.KeyBackspace, ActionDelete},
		{ebiten.KeyEscape, ActionDeselect},
		{ebiten.KeyTab, ActionSwitchCanvas},
		{ebiten.KeyF, ActionFit},
		{ebiten.KeyE, ActionReplace},
		{ebiten.KeyArrowLeft, ActionNudgeLeft},
		{ebiten.KeyArrowRight, ActionNudgeRight},
		{ebiten.KeyArrowUp, ActionNudgeUp},
		{ebiten.KeyArrowDown, ActionNudgeDown},
	}
	for _, b := range bindings {
		if pressed(b.key) {
			g.ed.Do(b.action)
		}
	}
}

func (g *Game) handlePointer(mods Mods, canvasW int) {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	if _, wy := ebiten.Wheel(); wy != 0 && mx < canvasW {
		g.ed.Zoom(wy, sx, sy)
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		if g.panning {
			g.ed.Pan(float64(mx-g.panX), float64(my-g.panY))
		}
		g.panX, g.panY, g.panning = mx, my, true
	} else {
		g.panning = false
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if g.hud.Contains(mx) {
			return
		}
		g.ed.PointerDown(sx, sy, mods)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.ed.PointerUp(sx, sy, mods)
	default:
		g.ed.PointerMove(sx, sy, mods)
	}
}

// Draw renders the active canvas, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 28, G: 28, B: 34, A: 255})
	v := g.ed.View()
	eng := g.ed.Engine()

	var geo ebiten.GeoM
	opts := ui.OverlayOptions{}
	if g.ed.Canvas() == engine.CanvasTiles {
		g.cells = render.MapCells(eng.Map(), eng.Gfx(), g.cells)
		geo.Scale(v.Zoom/codec.SpriteSize, v.Zoom/codec.SpriteSize)
		geo.Translate(v.PanX, v.PanY)
		g.tiles.Blit(screen, g.cells, render.Palette, geo)
		opts.GridStep = 1
	} else {
		g.cells = render.SheetCells(eng.Gfx(), g.cells)
		geo.Scale(v.Zoom, v.Zoom)
		geo.Translate(v.PanX, v.PanY)
		g.sheet.Blit(screen, g.cells, render.Palette, geo)
		opts.GridStep = codec.SpriteSize
		opts.Palette = true
	}
	g.overlay.Draw(screen, opts)
	g.hud.Draw(screen, g.width-g.cfg.HUDWidth, g.height)

	c := g.ed.Cursor()
	status := fmt.Sprintf("%s  %s  %d,%d  x%.2g", g.ed.Canvas(), g.ed.Tool(), c.X, c.Y, v.Zoom)
	ebitenutil.DebugPrintAt(screen, status, 4, g.height-16)
}

// Layout follows the window size so the canvas can be resized.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.ed.Resize(outsideWidth-g.cfg.HUDWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
