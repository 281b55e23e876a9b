// Package render turns cartridge memory into pixels.
package render

import "image/color"

// Palette is the fixed 16-colour console palette.
var Palette = []color.RGBA{
	{0, 0, 0, 255},       // black
	{29, 43, 83, 255},    // dark blue
	{126, 37, 83, 255},   // dark purple
	{0, 135, 81, 255},    // dark green
	{171, 82, 54, 255},   // brown
	{95, 87, 79, 255},    // dark grey
	{194, 195, 199, 255}, // light grey
	{255, 241, 232, 255}, // white
	{255, 0, 77, 255},    // red
	{255, 163, 0, 255},   // orange
	{255, 236, 39, 255},  // yellow
	{0, 228, 54, 255},    // green
	{41, 173, 255, 255},  // blue
	{131, 118, 156, 255}, // indigo
	{255, 119, 168, 255}, // pink
	{255, 204, 170, 255}, // peach
}

// Color returns palette entry i, wrapping into range.
func Color(i uint8) color.RGBA { return Palette[int(i)%len(Palette)] }
