// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

package store

import (
	"math"

	"github.com/watchdawg/citywatch/internal/models"
	"github.com/watchdawg/citywatch/internal/query"
)

// defaultCellSizeM is roughly a neighborhood block cluster. Seattle spans
// about 25km north-south, so this yields a few hundred populated cells.
const defaultCellSizeM = 500.0

// metersPerDegree approximates one degree of latitude.
const metersPerDegree = 111_000.0

// cellKey addresses one grid cell.
type cellKey struct {
	X, Y int
}

// grid divides geographic space into fixed-size cells so proximity queries
// only visit the cells overlapping the search radius instead of scanning
// every record. It is populated once during snapshot build and read-only
// afterwards, so it carries no lock.
type grid struct {
	cellSize float64 // degrees
	cells    map[cellKey][]*models.Incident
}

func newGrid(cellSizeM float64) *grid {
	if cellSizeM <= 0 {
		cellSizeM = defaultCellSizeM
	}
	return &grid{
		cellSize: cellSizeM / metersPerDegree,
		cells:    make(map[cellKey][]*models.Incident),
	}
}

func (g *grid) key(lat, lon float64) cellKey {
	return cellKey{
		X: int(math.Floor(lon / g.cellSize)),
		Y: int(math.Floor(lat / g.cellSize)),
	}
}

func (g *grid) insert(r *models.Incident) {
	if !r.HasCoords {
		return
	}
	k := g.key(r.Latitude, r.Longitude)
	g.cells[k] = append(g.cells[k], r)
}

// nearby returns records within radiusM of the point, boundary inclusive.
// Candidate cells cover the radius in every direction; each candidate is
// confirmed with an exact haversine test. A degree of longitude shrinks with
// latitude, so the east-west reach is widened by 1/cos(lat) to keep the
// visited window covering the full radius.
func (g *grid) nearby(lat, lon, radiusM float64) []*models.Incident {
	reachY := int(math.Ceil(radiusM/metersPerDegree/g.cellSize)) + 1
	reachX := reachY
	if cosLat := math.Cos(lat * math.Pi / 180.0); cosLat > 1e-6 {
		reachX = int(math.Ceil(radiusM/(metersPerDegree*cosLat)/g.cellSize)) + 1
	}
	center := g.key(lat, lon)

	var out []*models.Incident
	for dx := -reachX; dx <= reachX; dx++ {
		for dy := -reachY; dy <= reachY; dy++ {
			cell, ok := g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}]
			if !ok {
				continue
			}
			for _, r := range cell {
				if query.HaversineDistance(lat, lon, r.Latitude, r.Longitude) <= radiusM {
					out = append(out, r)
				}
			}
		}
	}
	return out
}

func (g *grid) numCells() int {
	return len(g.cells)
}
