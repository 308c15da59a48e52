package tetris

// IsValid reports whether shape placed at pos stays inside the grid and
// overlaps no locked cell.
func IsValid(shape Shape, grid *Grid, pos Position) bool {
	for i, j := range shape.Cells() {
		if grid.Occupied(pos.Row+i, pos.Col+j) {
			return false
		}
	}
	return true
}

// ResolveRotation tries the kick offsets for piece and the transition key in
// order and returns the first displaced position that lies within the grid
// bounds and where the rotated shape is valid. It returns false when every
// offset fails, in which case the rotation must be rejected.
func ResolveRotation(shape Shape, piece PieceType, key string, grid *Grid, pos Position) (Position, bool) {
	for _, offset := range Kicks(FamilyOf(piece), key) {
		candidate := pos.Add(offset)
		if !grid.InBounds(candidate.Row, candidate.Col) {
			continue
		}
		if IsValid(shape, grid, candidate) {
			return candidate, true
		}
	}
	return pos, false
}

// ShadowPosition returns the lowest position the shape reaches by moving
// straight down from pos.
func ShadowPosition(shape Shape, grid *Grid, pos Position) Position {
	shadow := pos
	if shape.Count() == 0 {
		return shadow
	}
	for IsValid(shape, grid, Position{Row: shadow.Row + 1, Col: shadow.Col}) {
		shadow.Row++
	}
	return shadow
}
