// Package predicates implements the robust geometric predicates the
// triangulation engine's correctness depends on: orientation, in-circle,
// circumcenter, and half-plane side tests.
//
// Each predicate first evaluates a cheap float64 determinant with an
// adaptive error bound; when the estimate falls within that bound it
// escalates to arbitrary-precision arithmetic (math/big) rather than risk
// a wrong sign. This mirrors the filter-then-exact-fallback shape the
// corpus already uses (iceisfun/gomesh's algorithm/robust package), widened
// here to also serve circumcenter and half-plane queries for Ruppert
// refinement and point location.
package predicates

import (
	"math"
	"math/big"
)

// Orient returns the orientation of the ordered triple (a, b, c):
//
//	+1 if the turn a->b->c is counter-clockwise
//	-1 if the turn a->b->c is clockwise
//	 0 if a, b, c are collinear (within the adaptive tolerance)
func Orient(a, b, c Point) int {
	ax := b.X - a.X
	ay := b.Y - a.Y
	bx := c.X - a.X
	by := c.Y - a.Y
	det := ax*by - ay*bx

	eps := adaptiveEps(maxAbs(a.X, a.Y, b.X, b.Y, c.X, c.Y), 2)
	switch {
	case det > eps:
		return 1
	case det < -eps:
		return -1
	default:
		return orientExact(a, b, c)
	}
}

func orientExact(a, b, c Point) int {
	ax := bigFloat(b.X - a.X)
	ay := bigFloat(b.Y - a.Y)
	bx := bigFloat(c.X - a.X)
	by := bigFloat(c.Y - a.Y)
	return det2(ax, ay, bx, by).Sign()
}

// InCircle tests point d against the circumcircle of (a, b, c), which must
// be supplied in counter-clockwise order. The return value is:
//
//	+1 if d lies strictly inside the circumcircle
//	-1 if d lies strictly outside
//	 0 if the four points are (nearly) cocircular
func InCircle(a, b, c, d Point) int {
	adx := a.X - d.X
	ady := a.Y - d.Y
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	cdx := c.X - d.X
	cdy := c.Y - d.Y

	ad2 := adx*adx + ady*ady
	bd2 := bdx*bdx + bdy*bdy
	cd2 := cdx*cdx + cdy*cdy

	det := ad2*(bdx*cdy-bdy*cdx) -
		bd2*(adx*cdy-ady*cdx) +
		cd2*(adx*bdy-ady*bdx)

	eps := adaptiveEps(maxAbs(adx, ady, bdx, bdy, cdx, cdy), 3)
	switch {
	case det > eps:
		return 1
	case det < -eps:
		return -1
	default:
		return inCircleExact(a, b, c, d)
	}
}

func inCircleExact(a, b, c, d Point) int {
	ax := bigFloat(a.X - d.X)
	ay := bigFloat(a.Y - d.Y)
	bx := bigFloat(b.X - d.X)
	by := bigFloat(b.Y - d.Y)
	cx := bigFloat(c.X - d.X)
	cy := bigFloat(c.Y - d.Y)

	ad2 := bigAdd(bigMul(ax, ax), bigMul(ay, ay))
	bd2 := bigAdd(bigMul(bx, bx), bigMul(by, by))
	cd2 := bigAdd(bigMul(cx, cx), bigMul(cy, cy))

	term1 := bigMul(ad2, det2(bx, by, cx, cy))
	term2 := bigMul(bd2, det2(ax, ay, cx, cy))
	term3 := bigMul(cd2, det2(ax, ay, bx, by))

	sum := bigAdd(term1, term3)
	sum.Sub(sum, term2)
	return sum.Sign()
}

// Circumcenter computes the center and squared circumradius of the circle
// through a, b, c. ok is false when the three points are collinear (within
// PrecisionEps-free exact check) and no finite circumcenter exists.
func Circumcenter(a, b, c Point) (center Point, r2 float64, ok bool) {
	ax := a.X - c.X
	ay := a.Y - c.Y
	bx := b.X - c.X
	by := b.Y - c.Y

	d := 2 * (ax*by - ay*bx)
	if d == 0 {
		return Point{}, 0, false
	}

	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by

	ux := (by*a2 - ay*b2) / d
	uy := (ax*b2 - bx*a2) / d

	center = Point{X: ux + c.X, Y: uy + c.Y}
	r2 = ux*ux + uy*uy
	return center, r2, true
}

// HalfPlane returns the signed distance of p from the infinite line through
// a and b, scaled by |ab| (i.e. twice the signed triangle area divided by
// the base length). Positive means p is to the left of a->b, negative to
// the right, and the magnitude shrinks to zero as p approaches the line --
// exactly the quantity half-plane threshold tests compare against.
func HalfPlane(a, b, p Point) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	length := math.Hypot(abx, aby)
	if length == 0 {
		return 0
	}
	cross := abx*(p.Y-a.Y) - aby*(p.X-a.X)
	return cross / length
}

func adaptiveEps(maxMag float64, degree int) float64 {
	const filter = 1e-15
	eps := math.Pow(maxMag, float64(degree)) * filter
	if eps < filter {
		eps = filter
	}
	return eps
}

func maxAbs(values ...float64) float64 {
	m := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func bigFloat(v float64) *big.Float {
	return new(big.Float).SetPrec(256).SetFloat64(v)
}

func bigMul(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(256).Mul(a, b)
}

func bigAdd(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(256).Add(a, b)
}

func det2(ax, ay, bx, by *big.Float) *big.Float {
	return bigAdd(bigMul(ax, by), new(big.Float).SetPrec(256).Neg(bigMul(ay, bx)))
}
