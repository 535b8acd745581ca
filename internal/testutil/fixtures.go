package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
)

// TwoResidueCoords is the ALA/GLY pair three ångströms apart on the x axis.
func TwoResidueCoords() hydropathy.CoordinateMap {
	return hydropathy.CoordinateMap{
		"ALA1": {X: 0, Y: 0, Z: 0},
		"GLY2": {X: 3, Y: 0, Z: 0},
	}
}

// SurfacePatch returns a small mixed-residue patch spread over a few ångströms.
func SurfacePatch() hydropathy.CoordinateMap {
	return hydropathy.CoordinateMap{
		"LEU10": {X: 0, Y: 0, Z: 0},
		"LYS11": {X: 3.8, Y: 0, Z: 0},
		"ILE12": {X: 0, Y: 3.8, Z: 0},
		"ASP13": {X: 0, Y: 0, Z: 3.8},
		"PHE14": {X: 5.1, Y: 5.1, Z: 0},
		"SER15": {X: 9.5, Y: 1.2, Z: 0.4},
	}
}

// WriteFile writes content into a file under t.TempDir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

//Personal.AI order the ending
