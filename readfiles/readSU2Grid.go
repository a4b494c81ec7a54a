package readfiles

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gopart/mesh"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle                     = 5
	ELType_Quadrilateral                = 9
	ELType_Tetrahedral                  = 10
	ELType_Hexahedral                   = 12
	ELType_Prism                        = 13
	ELType_Pyramid                      = 14
)

// ReadSU2 reads the NDIME, NELEM and NPOIN sections of an SU2 native mesh.
// Only triangles (2D) and tetrahedra (3D) are accepted. Marker sections are
// not needed for partitioning and are ignored.
func ReadSU2(filename string) (m *mesh.Mesh, nd *NodeData, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	return ParseSU2(filename, file)
}

func ParseSU2(name string, r io.Reader) (m *mesh.Mesh, nd *NodeData, err error) {
	var (
		lr     = NewLineReader(name, r, "%")
		fields []string
		ok     bool
		ndime  int
		vals   []int
	)
	for {
		if fields, ok, err = lr.Next(); err != nil {
			return
		} else if !ok {
			break
		}
		key, num, isToken := su2Token(fields)
		if !isToken {
			continue
		}
		switch key {
		case "NDIME":
			if ndime, err = strconv.Atoi(num); err != nil || ndime < 2 || ndime > 3 {
				return nil, nil, lr.Errorf("NDIME must be 2 or 3, found %q", num)
			}
		case "NELEM":
			if ndime == 0 {
				return nil, nil, lr.Errorf("NELEM before NDIME")
			}
			var nelem int
			if nelem, err = strconv.Atoi(num); err != nil || nelem < 0 {
				return nil, nil, lr.Errorf("invalid element count %q", num)
			}
			simplex := SU2ElementType(ELType_Triangle)
			if ndime == 3 {
				simplex = ELType_Tetrahedral
			}
			m = mesh.NewMesh(ndime)
			for i := 0; i < nelem; i++ {
				if fields, ok, err = lr.Next(); err != nil {
					return
				} else if !ok {
					return nil, nil, lr.Errorf("expected %d elements, found %d", nelem, i)
				}
				if vals, err = lr.Ints(fields); err != nil {
					return
				}
				if SU2ElementType(vals[0]) != simplex {
					return nil, nil, lr.Errorf("element type %d is not a %d-simplex", vals[0], ndime)
				}
				if len(vals) < 2+ndime {
					return nil, nil, lr.Errorf("element needs %d vertices", ndime+1)
				}
				if err = m.AddElem(vals[1 : 2+ndime]); err != nil {
					return nil, nil, fmt.Errorf("%s:%d: %w", name, lr.Line(), err)
				}
			}
		case "NPOIN":
			if ndime == 0 {
				return nil, nil, lr.Errorf("NPOIN before NDIME")
			}
			var npoin int
			if npoin, err = strconv.Atoi(num); err != nil || npoin < 0 {
				return nil, nil, lr.Errorf("invalid point count %q", num)
			}
			nd = &NodeData{
				Dim:    ndime,
				Coords: make([][]float64, npoin),
				Text:   make([]string, npoin),
			}
			for i := 0; i < npoin; i++ {
				if fields, ok, err = lr.Next(); err != nil {
					return
				} else if !ok || len(fields) < ndime {
					return nil, nil, lr.Errorf("point %d needs %d coordinates", i, ndime)
				}
				// The trailing point index is optional
				id := i
				if len(fields) > ndime {
					if id, err = strconv.Atoi(fields[len(fields)-1]); err != nil || id < 0 || id >= npoin {
						return nil, nil, lr.Errorf("point index %q out of range", fields[len(fields)-1])
					}
				}
				coord := make([]float64, ndime)
				for d := range coord {
					if coord[d], err = strconv.ParseFloat(fields[d], 64); err != nil {
						return nil, nil, lr.Errorf("coordinate %q is not a number", fields[d])
					}
				}
				nd.Coords[id] = coord
				nd.Text[id] = strings.Join(fields[:ndime], " ")
			}
		}
		if m != nil && nd != nil {
			break
		}
	}
	if m == nil || nd == nil {
		return nil, nil, lr.Errorf("missing NELEM or NPOIN section")
	}
	for i, c := range nd.Coords {
		if c == nil {
			return nil, nil, lr.Errorf("point %d not defined", i)
		}
		m.AddPoint(c)
	}
	if err = m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return
}

// su2Token splits a "KEY= value" line
func su2Token(fields []string) (key, value string, ok bool) {
	line := strings.Join(fields, " ")
	ind := strings.Index(line, "=")
	if ind < 0 {
		return
	}
	return strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:]), true
}
