package angle

import "math"

const (
	FullTurn    = 360.0
	HalfTurn    = FullTurn / 2
	QuarterTurn = FullTurn / 4
)

// Normalize reduces a into [0, 360) using floor-mod semantics.
func Normalize(a float64) float64 {
	a = math.Mod(a, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// -1e-14 + 360 rounds to 360
	if a >= FullTurn {
		a = 0
	}
	return a
}

// Delta returns the shortest signed angular difference from -> to, in (-180, 180].
func Delta(from, to float64) float64 {
	d := math.Mod(to-from, FullTurn)
	if d > HalfTurn {
		d -= FullTurn
	} else if d <= -HalfTurn {
		d += FullTurn
	}
	return d
}

// Distance is the unsigned circular distance between a and b, in [0, 180].
func Distance(a, b float64) float64 {
	return math.Abs(Delta(a, b))
}

// Opposite returns the antipodal angle.
func Opposite(a float64) float64 {
	return Normalize(a + HalfTurn)
}

// Within reports whether a lies strictly inside the arc of half-width tol centred on c.
func Within(a, c, tol float64) bool {
	return Distance(a, c) < tol
}

// FromPoint converts a pointer position inside a width x height view into an
// angle around the view centre. Screen y grows downwards; the result is 0 for
// a point straight above the centre and 90 for a point to its right.
func FromPoint(x, y, width, height float64) float64 {
	dx := x - width/2
	dy := -(y - height/2)
	return Normalize(-Degrees(math.Atan2(dy, dx)) + QuarterTurn)
}

// ToPoint is the inverse of FromPoint for a point at the given radius.
func ToPoint(a, radius, width, height float64) (x, y float64) {
	rad := Radians(a)
	return width/2 + radius*math.Sin(rad), height/2 - radius*math.Cos(rad)
}

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
