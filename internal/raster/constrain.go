package raster

// Snap constrains a drag delta to horizontal, vertical or a 45 degree
// diagonal. An axis wins outright when its magnitude is more than twice the
// other's; anything closer becomes a diagonal whose length is the larger
// magnitude.
func Snap(dx, dy int) (int, int) {
	ax, ay := abs(dx), abs(dy)
	switch {
	case ax > 2*ay:
		return dx, 0
	case ay > 2*ax:
		return 0, dy
	}
	m := max(ax, ay)
	return sign(dx) * m, sign(dy) * m
}

// Square forces a drag delta to equal width and height. The magnitude comes
// from the dominant axis; each axis keeps its own direction, and an axis
// with no movement follows the dominant one.
func Square(dx, dy int) (int, int) {
	ax, ay := abs(dx), abs(dy)
	m := max(ax, ay)
	sx, sy := sign(dx), sign(dy)
	if dx == 0 {
		sx = sy
	}
	if dy == 0 {
		sy = sx
	}
	return sx * m, sy * m
}
