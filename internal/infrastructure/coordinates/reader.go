// Package coordinates loads residue coordinate maps from YAML or JSON files.
//
// Both formats map a residue identifier to a point written either as a
// three-element sequence or as an object with x, y and z keys:
//
//	ALA1: [0.0, 0.0, 0.0]
//	GLY2: {x: 1.0, y: 0.0, z: 0.0}
package coordinates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// Format selects the input decoder.
type Format string

const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// MaxInputBytes caps the size of a coordinate document.
const MaxInputBytes = 64 << 20

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeValidation, "unsupported coordinate format").WithDetail("format=" + s)
	}
}

// ReadFile loads a coordinate map from path, choosing the decoder by file
// extension.
func ReadFile(path string) (hydropathy.CoordinateMap, error) {
	return ReadFileAs(path, FormatAuto)
}

// ReadFileAs loads a coordinate map from path with an explicit format.
// FormatAuto falls back to the file extension, then to content sniffing.
func ReadFileAs(path string, format Format) (hydropathy.CoordinateMap, error) {
	if format == FormatAuto {
		format = FormatFromPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "cannot open coordinate file").WithDetail(path)
	}
	defer f.Close()

	coords, err := Read(f, format)
	if err != nil {
		if ae, ok := err.(*errors.AppError); ok && ae.Detail == "" {
			return nil, ae.WithDetail(path)
		}
		return nil, err
	}
	return coords, nil
}

// Read decodes a coordinate map from r.
func Read(r io.Reader, format Format) (hydropathy.CoordinateMap, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "cannot read coordinates")
	}
	if len(data) > MaxInputBytes {
		return nil, errors.Newf(errors.ErrCodeInvalidCoordinates, "coordinate document exceeds %d bytes", MaxInputBytes)
	}
	return Decode(data, format)
}

// Decode parses data in the given format. FormatAuto treats a document
// starting with '{' as JSON and anything else as YAML.
func Decode(data []byte, format Format) (hydropathy.CoordinateMap, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var (
		coords hydropathy.CoordinateMap
		err    error
	)
	switch format {
	case FormatJSON:
		coords, err = decodeJSON(data)
	case FormatYAML:
		coords, err = decodeYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unsupported coordinate format").WithDetail("format=" + string(format))
	}
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "coordinate document contains no residues")
	}
	return coords, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// ─────────────────────────────────────────────────────────────────────────────
// YAML
// ─────────────────────────────────────────────────────────────────────────────

func decodeYAML(data []byte) (hydropathy.CoordinateMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "malformed YAML coordinates")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return hydropathy.CoordinateMap{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "coordinates must be a mapping of residue id to point")
	}

	coords := make(hydropathy.CoordinateMap, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		id := strings.TrimSpace(keyNode.Value)
		if err := checkID(id, coords); err != nil {
			return nil, err
		}
		p, err := yamlPoint(valNode)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "invalid point").
				WithDetail(fmt.Sprintf("residue=%s line=%d", id, valNode.Line))
		}
		coords[id] = p
	}
	return coords, nil
}

func yamlPoint(n *yaml.Node) (hydropathy.Vec3, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var xyz []float64
		if err := n.Decode(&xyz); err != nil {
			return hydropathy.Vec3{}, err
		}
		return fromSlice(xyz)
	case yaml.MappingNode:
		var m map[string]float64
		if err := n.Decode(&m); err != nil {
			return hydropathy.Vec3{}, err
		}
		return fromMap(m)
	default:
		return hydropathy.Vec3{}, fmt.Errorf("expected sequence or mapping, got %q", n.Value)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON
// ─────────────────────────────────────────────────────────────────────────────

func decodeJSON(data []byte) (hydropathy.CoordinateMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err == io.EOF {
		return hydropathy.CoordinateMap{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "malformed JSON coordinates")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "coordinates must be an object of residue id to point")
	}

	coords := hydropathy.CoordinateMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "malformed JSON coordinates")
		}
		id := strings.TrimSpace(tok.(string))
		if err := checkID(id, coords); err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "malformed JSON coordinates").WithDetail("residue=" + id)
		}
		p, err := jsonPoint(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "invalid point").WithDetail("residue=" + id)
		}
		coords[id] = p
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidCoordinates, "malformed JSON coordinates")
	}
	return coords, nil
}

func jsonPoint(raw json.RawMessage) (hydropathy.Vec3, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return hydropathy.Vec3{}, fmt.Errorf("empty point")
	}
	switch trimmed[0] {
	case '[':
		var xyz []float64
		if err := json.Unmarshal(trimmed, &xyz); err != nil {
			return hydropathy.Vec3{}, err
		}
		return fromSlice(xyz)
	case '{':
		var m map[string]float64
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return hydropathy.Vec3{}, err
		}
		return fromMap(m)
	default:
		return hydropathy.Vec3{}, fmt.Errorf("expected array or object, got %s", string(trimmed))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

func checkID(id string, seen hydropathy.CoordinateMap) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidCoordinates, "empty residue identifier")
	}
	if _, dup := seen[id]; dup {
		return errors.New(errors.ErrCodeInvalidCoordinates, "duplicate residue identifier").WithDetail("residue=" + id)
	}
	return nil
}

func fromSlice(xyz []float64) (hydropathy.Vec3, error) {
	if len(xyz) != 3 {
		return hydropathy.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(xyz))
	}
	return finite(hydropathy.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})
}

func fromMap(m map[string]float64) (hydropathy.Vec3, error) {
	if len(m) != 3 {
		return hydropathy.Vec3{}, fmt.Errorf("expected keys x, y, z")
	}
	var (
		v    hydropathy.Vec3
		seen [3]bool
	)
	for k, f := range m {
		switch strings.ToLower(k) {
		case "x":
			v.X, seen[0] = f, true
		case "y":
			v.Y, seen[1] = f, true
		case "z":
			v.Z, seen[2] = f, true
		default:
			return hydropathy.Vec3{}, fmt.Errorf("unexpected key %q", k)
		}
	}
	if !seen[0] || !seen[1] || !seen[2] {
		return hydropathy.Vec3{}, fmt.Errorf("expected keys x, y, z")
	}
	return finite(v)
}

func finite(v hydropathy.Vec3) (hydropathy.Vec3, error) {
	if !v.IsFinite() {
		return hydropathy.Vec3{}, fmt.Errorf("non-finite component in %v", v)
	}
	return v, nil
}

//Personal.AI order the ending
