package mesh

import (
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// EarCut triangulates the simple polygon with the given vertices by ear
// clipping and returns index triplets into polygon, with the winding of the
// polygon. The polygon is projected on the plane orthogonal to the dominant
// axis of its Newell normal. A convex polygon gives the fan (0, k, k+1).
// Polygons with less than 3 vertices give nil.
func EarCut(polygon []dvec3.T) []uint32 {
	n := len(polygon)
	if n < 3 {
		return nil
	}
	tris := make([]uint32, 0, 3*(n-2))
	if n == 3 {
		return append(tris, 0, 1, 2)
	}

	pts := projectPolygon(polygon)
	var area float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%n]
		area += a[0]*b[1] - b[0]*a[1]
	}
	sign := 1.0
	if area < 0 {
		sign = -1
	}

	rest := make([]uint32, n)
	for i := range rest {
		rest[i] = uint32(i)
	}
	for len(rest) > 3 {
		ear := -1
		for off := 0; off < len(rest); off++ {
			k := (off + 1) % len(rest)
			if isEar(pts, rest, k, sign) {
				ear = k
				break
			}
		}
		if ear < 0 {
			// self intersecting or degenerate remainder
			break
		}
		prev := rest[(ear+len(rest)-1)%len(rest)]
		next := rest[(ear+1)%len(rest)]
		tris = append(tris, prev, rest[ear], next)
		rest = append(rest[:ear], rest[ear+1:]...)
	}
	for k := 1; k+1 < len(rest); k++ {
		tris = append(tris, rest[0], rest[k], rest[k+1])
	}
	return tris
}

func projectPolygon(polygon []dvec3.T) [][2]float64 {
	var nrm dvec3.T
	for i := range polygon {
		a, b := polygon[i], polygon[(i+1)%len(polygon)]
		nrm[0] += (a[1] - b[1]) * (a[2] + b[2])
		nrm[1] += (a[2] - b[2]) * (a[0] + b[0])
		nrm[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	// drop the dominant axis, keeping the remaining two in cyclic order so
	// the projected winding follows the normal
	x, y := 1, 2
	ax, ay, az := math.Abs(nrm[0]), math.Abs(nrm[1]), math.Abs(nrm[2])
	switch {
	case az >= ax && az >= ay:
		x, y = 0, 1
	case ay >= ax:
		x, y = 2, 0
	}
	pts := make([][2]float64, len(polygon))
	for i, p := range polygon {
		pts[i] = [2]float64{p[x], p[y]}
	}
	return pts
}

func cross2(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func isEar(pts [][2]float64, rest []uint32, k int, sign float64) bool {
	m := len(rest)
	ia, ib, ic := rest[(k+m-1)%m], rest[k], rest[(k+1)%m]
	a, b, c := pts[ia], pts[ib], pts[ic]
	if sign*cross2(a, b, c) <= 0 {
		return false
	}
	for _, ip := range rest {
		if ip == ia || ip == ib || ip == ic {
			continue
		}
		p := pts[ip]
		if p == a || p == b || p == c {
			continue
		}
		if sign*cross2(a, b, p) >= 0 && sign*cross2(b, c, p) >= 0 && sign*cross2(c, a, p) >= 0 {
			return false
		}
	}
	return true
}
