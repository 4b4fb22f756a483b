package quadtree

import (
	"math"

	"github.com/godeepar/geocore/geometry"
)

// maxLevel is the largest level whose square side 2^level is finite.
const maxLevel = 1023

// key is the smallest power-of-two aligned square containing an envelope.
// The square's side is 2^level.
type key struct {
	env   geometry.Envelope
	level int
}

// newKey reports false when no finite aligned square covers itemEnv.
func newKey(itemEnv geometry.Envelope) (key, bool) {
	level := quadLevel(itemEnv)
	if level > maxLevel {
		return key{}, false
	}
	env := keyEnvelope(level, itemEnv)
	// the aligned square at the first guess may straddle the item; go up
	// until it does not.
	for !env.Covers(itemEnv) {
		level++
		if level > maxLevel {
			return key{}, false
		}
		env = keyEnvelope(level, itemEnv)
	}
	if math.IsInf(env.MaxX, 0) || math.IsInf(env.MaxY, 0) {
		return key{}, false
	}
	return key{env: env, level: level}, true
}

// quadLevel is one more than the binary exponent of the envelope's larger
// side, so a square of side 2^level is at least as large as the envelope.
func quadLevel(env geometry.Envelope) int {
	dMax := math.Max(env.Width(), env.Height())
	_, exp := math.Frexp(dMax)
	return exp
}

func keyEnvelope(level int, itemEnv geometry.Envelope) geometry.Envelope {
	quadSize := math.Ldexp(1, level)
	x := math.Floor(itemEnv.MinX/quadSize) * quadSize
	y := math.Floor(itemEnv.MinY/quadSize) * quadSize
	return geometry.Envelope{MinX: x, MinY: y, MaxX: x + quadSize, MaxY: y + quadSize}
}

// subnodeIndex returns the quadrant of a cell centred on (cx, cy) that
// fully contains env, or -1 if env spans the centre lines.
//
//	2 | 3
//	--+--
//	0 | 1
func subnodeIndex(env geometry.Envelope, cx, cy float64) int {
	index := -1
	if env.MinX >= cx {
		if env.MinY >= cy {
			index = 3
		}
		if env.MaxY <= cy {
			index = 1
		}
	}
	if env.MaxX <= cx {
		if env.MinY >= cy {
			index = 2
		}
		if env.MaxY <= cy {
			index = 0
		}
	}
	return index
}

// quadrant returns the envelope of quadrant index of cell.
func quadrant(cell geometry.Envelope, index int) geometry.Envelope {
	cx := (cell.MinX + cell.MaxX) / 2
	cy := (cell.MinY + cell.MaxY) / 2
	q := cell
	if index&1 == 0 {
		q.MaxX = cx
	} else {
		q.MinX = cx
	}
	if index&2 == 0 {
		q.MaxY = cy
	} else {
		q.MinY = cy
	}
	return q
}
