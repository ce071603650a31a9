package life

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord addresses a cell. Z is always 0 on planar grids.
type Coord struct {
	X int
	Y int
	Z int
}

// C is a convenience constructor for a planar Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// C3 is a convenience constructor for a volumetric Coord.
func C3(x, y, z int) Coord {
	return Coord{X: x, Y: y, Z: z}
}

// Add returns the coordinate offset by other.
func (c Coord) Add(other Coord) Coord {
	return Coord{X: c.X + other.X, Y: c.Y + other.Y, Z: c.Z + other.Z}
}

// String returns "(x,y)" for planar coordinates and "(x,y,z)" otherwise.
func (c Coord) String() string {
	if c.Z == 0 {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Dims holds the extents of a 2D or 3D grid.
// The zero value is invalid; use Dims2, Dims3 or ParseDims.
type Dims struct {
	rank int
	ext  [3]int
}

// Dims2 returns planar dimensions.
func Dims2(w, h int) Dims {
	return Dims{rank: 2, ext: [3]int{w, h, 1}}
}

// Dims3 returns volumetric dimensions.
func Dims3(w, h, d int) Dims {
	return Dims{rank: 3, ext: [3]int{w, h, d}}
}

// ParseDims parses "WxH" or "WxHxD".
func ParseDims(s string) (Dims, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 && len(parts) != 3 {
		return Dims{}, fmt.Errorf("%w: %q is not WxH or WxHxD", ErrInvalidDims, s)
	}
	ext := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Dims{}, fmt.Errorf("%w: %q: %v", ErrInvalidDims, s, err)
		}
		ext[i] = n
	}
	var d Dims
	if len(ext) == 2 {
		d = Dims2(ext[0], ext[1])
	} else {
		d = Dims3(ext[0], ext[1], ext[2])
	}
	return d, d.Validate()
}

// W returns the extent along X.
func (d Dims) W() int { return d.ext[0] }

// H returns the extent along Y.
func (d Dims) H() int { return d.ext[1] }

// D returns the extent along Z (1 for planar grids).
func (d Dims) D() int { return d.ext[2] }

// Rank returns 2 or 3 for valid dimensions.
func (d Dims) Rank() int { return d.rank }

// Len returns the number of cells.
func (d Dims) Len() int { return d.ext[0] * d.ext[1] * d.ext[2] }

// Validate rejects unsupported ranks and zero or negative extents.
func (d Dims) Validate() error {
	if d.rank != 2 && d.rank != 3 {
		return fmt.Errorf("%w: rank %d", ErrInvalidDims, d.rank)
	}
	for i := 0; i < d.rank; i++ {
		if d.ext[i] <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDims, d)
		}
	}
	return nil
}

// Contains reports whether c lies inside the extents.
func (d Dims) Contains(c Coord) bool {
	return c.X >= 0 && c.X < d.ext[0] &&
		c.Y >= 0 && c.Y < d.ext[1] &&
		c.Z >= 0 && c.Z < d.ext[2]
}

// String returns "WxH" or "WxHxD".
func (d Dims) String() string {
	if d.rank == 3 {
		return fmt.Sprintf("%dx%dx%d", d.ext[0], d.ext[1], d.ext[2])
	}
	return fmt.Sprintf("%dx%d", d.ext[0], d.ext[1])
}

// Topology selects how neighbor lookups treat the grid edges.
type Topology uint8

const (
	// Wrap joins opposite edges on every axis (toroidal).
	Wrap Topology = iota
	// Clamp skips neighbors that fall outside the grid.
	Clamp
)

// String returns the config name of the topology.
func (t Topology) String() string {
	switch t {
	case Wrap:
		return "wrap"
	case Clamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// ParseTopology parses "wrap" (alias "torus") or "clamp" (alias "bounded").
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap", "torus":
		return Wrap, nil
	case "clamp", "bounded":
		return Clamp, nil
	}
	return 0, fmt.Errorf("life: unknown topology %q", s)
}

// mooreOffsets lists every offset in {-1,0,1}^rank except the origin.
func mooreOffsets(rank int) []Coord {
	zr := 0
	if rank == 3 {
		zr = 1
	}
	offsets := make([]Coord, 0, 26)
	for dz := -zr; dz <= zr; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				offsets = append(offsets, Coord{X: dx, Y: dy, Z: dz})
			}
		}
	}
	return offsets
}

var (
	moore2 = mooreOffsets(2)
	moore3 = mooreOffsets(3)
)
