package coordinates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"coords.json", FormatJSON},
		{"coords.JSON", FormatJSON},
		{"coords.yaml", FormatYAML},
		{"dir/coords.yml", FormatYAML},
		{"coords.txt", FormatAuto},
		{"coords", FormatAuto},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("pdb")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestDecode_YAML(t *testing.T) {
	doc := `
ALA1: [0.0, 0.0, 0.0]
GLY2: {x: 1.5, y: -2, z: 3.25}
SER3A: [1, 2, 3]
`
	coords, err := Decode([]byte(doc), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, hydropathy.CoordinateMap{
		"ALA1":  {X: 0, Y: 0, Z: 0},
		"GLY2":  {X: 1.5, Y: -2, Z: 3.25},
		"SER3A": {X: 1, Y: 2, Z: 3},
	}, coords)
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"ALA1": [0, 0, 0], "GLY2": {"x": 1, "y": 0, "z": 0}}`
	coords, err := Decode([]byte(doc), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, hydropathy.CoordinateMap{
		"ALA1": {},
		"GLY2": {X: 1},
	}, coords)
}

func TestDecode_JSONAsYAML(t *testing.T) {
	coords, err := Decode([]byte(`{"ALA1": [1, 2, 3]}`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, hydropathy.Vec3{X: 1, Y: 2, Z: 3}, coords["ALA1"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		code   errors.ErrorCode
	}{
		{"empty yaml", "", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"empty json object", "{}", FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"empty json", "", FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"yaml sequence root", "- [0,0,0]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"json array root", "[[0,0,0]]", FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"malformed yaml", "ALA1: [0, 0", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"malformed json", `{"ALA1": [0, 0}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"two components", "ALA1: [0, 0]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"four components json", `{"ALA1": [0, 0, 0, 0]}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"scalar point", "ALA1: 3", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"scalar point json", `{"ALA1": 3}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"non numeric", "ALA1: [a, 0, 0]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"nan", "ALA1: [.nan, 0, 0]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"inf", "ALA1: [.inf, 0, 0]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"missing key", "ALA1: {x: 1, y: 2, w: 3}", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"repeated axis", `{"ALA1": {"x": 1, "X": 2, "y": 3}}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"duplicate id yaml", "ALA1: [0,0,0]\nALA1: [1,1,1]", FormatYAML, errors.ErrCodeInvalidCoordinates},
		{"duplicate id json", `{"ALA1": [0,0,0], "ALA1": [1,1,1]}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"blank id", `{" ": [0,0,0]}`, FormatJSON, errors.ErrCodeInvalidCoordinates},
		{"unknown format", "ALA1: [0,0,0]", Format("xml"), errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestRead_SizeLimit(t *testing.T) {
	big := strings.NewReader(strings.Repeat(" ", MaxInputBytes+1))
	_, err := Read(big, FormatYAML)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCoordinates))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "coords.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"LYS7": [1, 1, 1]}`), 0o600))
	coords, err := ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, coords, 1)

	yamlPath := filepath.Join(dir, "coords.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("LYS7: [1, 1, 1]\nTRP8: [2, 2, 2]\n"), 0o600))
	coords, err = ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, coords, 2)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("- nope"), 0o600))
	_, err = ReadFile(badPath)
	var ae *errors.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, errors.ErrCodeInvalidCoordinates, ae.Code)
	assert.Equal(t, badPath, ae.Detail)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCoordinates))
}

func TestReadFileAs_OverridesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"ALA1": [1, 2, 3]}`), 0o600))

	coords, err := ReadFileAs(path, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, hydropathy.Vec3{X: 1, Y: 2, Z: 3}, coords["ALA1"])

	// Sniffed when neither the flag nor the extension names a format.
	coords, err = ReadFileAs(path, FormatAuto)
	require.NoError(t, err)
	assert.Len(t, coords, 1)
}

//Personal.AI order the ending
