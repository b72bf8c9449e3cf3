package utils

import (
	"math"

	"github.com/charging-catalog/internal/domain"
)

// RouteBufferDegrees is the half-width of the corridor built around a
// driving route, in coordinate degrees (~1km).
const RouteBufferDegrees = 0.01

// BufferRoute builds a closed polygon around an ordered polyline: each
// segment is offset to both sides by offset degrees, corners are beveled
// and the ends are squared off. The result feeds the geo-polygon
// containment query for "locations along this route".
func BufferRoute(route []domain.Point, offset float64) []domain.Point {
	pts := dedupePoints(route)

	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		p := pts[0]
		return []domain.Point{
			{Lat: p.Lat - offset, Lon: p.Lon - offset},
			{Lat: p.Lat - offset, Lon: p.Lon + offset},
			{Lat: p.Lat + offset, Lon: p.Lon + offset},
			{Lat: p.Lat + offset, Lon: p.Lon - offset},
			{Lat: p.Lat - offset, Lon: p.Lon - offset},
		}
	}

	var left, right []domain.Point
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]

		dLat := b.Lat - a.Lat
		dLon := b.Lon - a.Lon
		length := math.Hypot(dLat, dLon)
		dLat, dLon = dLat/length, dLon/length

		// Normal pointing to the left of travel.
		nLat, nLon := -dLon*offset, dLat*offset

		aa, bb := a, b
		if i == 0 {
			// Square cap: push the start out along the segment.
			aa = domain.Point{Lat: a.Lat - dLat*offset, Lon: a.Lon - dLon*offset}
		}
		if i == len(pts)-2 {
			bb = domain.Point{Lat: b.Lat + dLat*offset, Lon: b.Lon + dLon*offset}
		}

		left = append(left,
			domain.Point{Lat: aa.Lat + nLat, Lon: aa.Lon + nLon},
			domain.Point{Lat: bb.Lat + nLat, Lon: bb.Lon + nLon},
		)
		right = append(right,
			domain.Point{Lat: aa.Lat - nLat, Lon: aa.Lon - nLon},
			domain.Point{Lat: bb.Lat - nLat, Lon: bb.Lon - nLon},
		)
	}

	// Walk up the left side, back down the right, then close the ring.
	ring := make([]domain.Point, 0, len(left)+len(right)+1)
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	ring = append(ring, ring[0])

	return ring
}

func dedupePoints(route []domain.Point) []domain.Point {
	out := make([]domain.Point, 0, len(route))
	for _, p := range route {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
