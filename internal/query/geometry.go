// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package query

import (
	"math"
)

// earthRadiusM is the mean Earth radius used by the haversine distance.
const earthRadiusM = 6371000.0

// HaversineDistance returns the great-circle distance in meters between two
// coordinates. Symmetric, and zero for identical points.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// BoundingBox is an axis-aligned lat/lon rectangle used to prune candidates
// before the exact geometric test runs.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether a point lies inside the box, borders inclusive.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// PolygonBounds computes the bounding box of a vertex ring. Computed once
// per query, not per point.
func PolygonBounds(polygon []Vertex) BoundingBox {
	box := BoundingBox{
		MinLat: polygon[0].Lat, MaxLat: polygon[0].Lat,
		MinLon: polygon[0].Lon, MaxLon: polygon[0].Lon,
	}
	for _, v := range polygon[1:] {
		box.MinLat = math.Min(box.MinLat, v.Lat)
		box.MaxLat = math.Max(box.MaxLat, v.Lat)
		box.MinLon = math.Min(box.MinLon, v.Lon)
		box.MaxLon = math.Max(box.MaxLon, v.Lon)
	}
	return box
}

// CircleBounds approximates a bounding box around a circle. One degree of
// latitude spans ~111 km; the longitude span widens with latitude.
func CircleBounds(c Circle) BoundingBox {
	latDelta := c.RadiusM / 111000.0
	lonDelta := latDelta
	if cosLat := math.Cos(c.Lat * math.Pi / 180.0); cosLat > 1e-6 {
		lonDelta = latDelta / cosLat
	}
	return BoundingBox{
		MinLat: c.Lat - latDelta,
		MaxLat: c.Lat + latDelta,
		MinLon: c.Lon - lonDelta,
		MaxLon: c.Lon + lonDelta,
	}
}

// PointInPolygon runs a ray-casting test of (lon, lat) against the vertex
// ring, closing the ring implicitly. A horizontal ray is cast from the point
// and edge crossings are counted; the point is inside iff the count is odd.
//
// Edge handling: horizontal edges (p1.Lat == p2.Lat) never contribute a
// crossing, and vertical edges (p1.Lon == p2.Lon) always satisfy the
// x-intercept comparison for rays at their latitude span.
func PointInPolygon(lon, lat float64, polygon []Vertex) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	p1 := polygon[0]
	for i := 1; i <= n; i++ {
		p2 := polygon[i%n]
		if lat > math.Min(p1.Lat, p2.Lat) && lat <= math.Max(p1.Lat, p2.Lat) &&
			lon <= math.Max(p1.Lon, p2.Lon) {
			if p1.Lat != p2.Lat {
				xIntercept := (lat-p1.Lat)*(p2.Lon-p1.Lon)/(p2.Lat-p1.Lat) + p1.Lon
				if p1.Lon == p2.Lon || lon <= xIntercept {
					inside = !inside
				}
			}
		}
		p1 = p2
	}
	return inside
}
