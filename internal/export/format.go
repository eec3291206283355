package export

import (
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format int

const (
	STL Format = iota
	OBJ
	GLB
	PLY
)

var formatNames = [...]string{STL: "stl", OBJ: "obj", GLB: "glb", PLY: "ply"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "stl"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{STL, OBJ, GLB, PLY}
}

// ParseFormat maps a name (case-insensitive, optional leading dot) to a Format.
// Anything unrecognized is STL.
func ParseFormat(name string) Format {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	for i, n := range formatNames {
		if n == name {
			return Format(i)
		}
	}
	return STL
}

// FormatFromPath picks the format from the file extension. ok is false when the
// extension is not a known format, in which case STL is returned.
func FormatFromPath(path string) (f Format, ok bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for i, n := range formatNames {
		if n == ext {
			return Format(i), true
		}
	}
	return STL, false
}
