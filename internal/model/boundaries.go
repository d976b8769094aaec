package model

import (
	"math"
	"strconv"
	"strings"
)

// Boundaries is an axis-aligned bounding box.
type Boundaries struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// Contains reports whether p lies inside the box, borders included.
func (b Boundaries) Contains(p Point) bool {
	return p.X >= b.XMin && p.X <= b.XMax &&
		p.Y >= b.YMin && p.Y <= b.YMax &&
		p.Z >= b.ZMin && p.Z <= b.ZMax
}

// Boundaries returns the bounding box of the four corner points.
func (b Box) Boundaries() Boundaries {
	pts := b.Points()
	out := Boundaries{
		XMin: pts[0].X, XMax: pts[0].X,
		YMin: pts[0].Y, YMax: pts[0].Y,
		ZMin: pts[0].Z, ZMax: pts[0].Z,
	}
	for _, p := range pts[1:] {
		out.XMin = math.Min(out.XMin, p.X)
		out.XMax = math.Max(out.XMax, p.X)
		out.YMin = math.Min(out.YMin, p.Y)
		out.YMax = math.Max(out.YMax, p.Y)
		out.ZMin = math.Min(out.ZMin, p.Z)
		out.ZMax = math.Max(out.ZMax, p.Z)
	}
	return out
}

// PdbBoundaries derives the bounding box of the protein from raw PDB
// lines, inflated by probeOut + 20.0 on every side. Coordinates come from
// the fixed columns of ATOM and HETATM records: x [30,38), y [38,46),
// z [46,54). Lines without either token, lines too short for the
// coordinate columns, and lines whose columns do not parse are skipped.
// ok is false when no atom was scanned.
func PdbBoundaries(lines []string, probeOut float64) (b Boundaries, ok bool) {
	for _, line := range lines {
		if !strings.Contains(line, "ATOM") && !strings.Contains(line, "HETATM") {
			continue
		}
		if len(line) < 54 {
			continue
		}
		x, errX := parseCoord(line[30:38])
		y, errY := parseCoord(line[38:46])
		z, errZ := parseCoord(line[46:54])
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		if !ok {
			b = Boundaries{XMin: x, XMax: x, YMin: y, YMax: y, ZMin: z, ZMax: z}
			ok = true
			continue
		}
		b.XMin = math.Min(b.XMin, x)
		b.XMax = math.Max(b.XMax, x)
		b.YMin = math.Min(b.YMin, y)
		b.YMax = math.Max(b.YMax, y)
		b.ZMin = math.Min(b.ZMin, z)
		b.ZMax = math.Max(b.ZMax, z)
	}
	if !ok {
		return Boundaries{}, false
	}
	pad := probeOut + 20.0
	b.XMin -= pad
	b.XMax += pad
	b.YMin -= pad
	b.YMax += pad
	b.ZMin -= pad
	b.ZMax += pad
	return b, true
}

func parseCoord(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
