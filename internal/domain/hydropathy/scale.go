package hydropathy

import (
	"fmt"
	"math"
	"sort"

	"github.com/turtacn/hydromoment/pkg/errors"
)

// DefaultScaleName is the scale used when none is configured.
const DefaultScaleName = "Kyte_Doolitle"

// Scale maps every standard residue type to a hydrophobicity index.
// Reversed scales assign their largest value to the most hydrophilic
// residues, so colour classification runs the opposite way.
type Scale struct {
	Name     string
	Values   map[ResidueType]float64
	Reversed bool
}

// NewScale builds a Scale and checks that all 20 residue types are present
// with finite values.
func NewScale(name string, values map[ResidueType]float64, reversed bool) (*Scale, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeUnknownScale, "scale name is required")
	}
	cp := make(map[ResidueType]float64, len(values))
	for _, rt := range AllResidueTypes() {
		v, ok := values[rt]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownResidueType, "scale is missing a residue type").
				WithDetail(fmt.Sprintf("scale=%s residue=%s", name, rt))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeValidation, "scale value must be finite").
				WithDetail(fmt.Sprintf("scale=%s residue=%s", name, rt))
		}
		cp[rt] = v
	}
	return &Scale{Name: name, Values: cp, Reversed: reversed}, nil
}

// Index returns the hydrophobicity index of rt.
func (s *Scale) Index(rt ResidueType) (float64, error) {
	v, ok := s.Values[rt]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownResidueType, "residue type not present in scale").
			WithDetail(fmt.Sprintf("scale=%s residue=%s", s.Name, rt))
	}
	return v, nil
}

// IndexOf resolves a residue identifier such as "LEU12" to its index.
func (s *Scale) IndexOf(residueID string) (float64, error) {
	rt, err := ResidueTypeFromID(residueID)
	if err != nil {
		return 0, err
	}
	return s.Index(rt)
}

// Min returns the smallest index in the scale.
func (s *Scale) Min() float64 {
	first := true
	var m float64
	for _, v := range s.Values {
		if first || v < m {
			m, first = v, false
		}
	}
	return m
}

// Max returns the largest index in the scale.
func (s *Scale) Max() float64 {
	first := true
	var m float64
	for _, v := range s.Values {
		if first || v > m {
			m, first = v, false
		}
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Built-in scales (ExPASy ProtScale)
// ─────────────────────────────────────────────────────────────────────────────

// Values are listed in ResidueType order: ALA ARG ASN ASP CYS GLN GLU GLY HIS
// ILE LEU LYS MET PHE PRO SER THR TRP TYR VAL.
type scaleTable [20]float64

var builtinScales = map[string]scaleTable{
	// Sweet & Eisenberg, J. Mol. Biol. 171:479-488 (1983).
	"OMH_Sweet": {-0.400, -0.590, -0.920, -1.310, 0.170, -0.910, -1.220, -0.670, -0.640, 1.250,
		1.220, -0.670, 1.020, 1.920, -0.490, -0.550, -0.280, 0.500, 1.670, 0.910},
	// Kyte & Doolittle, J. Mol. Biol. 157:105-132 (1982).
	"Kyte_Doolitle": {1.800, -4.500, -3.500, -3.500, 2.500, -3.500, -3.500, -0.400, -3.200, 4.500,
		3.800, -3.900, 1.900, 2.800, -1.600, -0.800, -0.700, -0.900, -1.300, 4.200},
	// Abraham & Leo, Proteins 2:130-152 (1987).
	"Abraham_Leo": {0.440, -2.420, -1.320, -0.310, 0.580, -0.710, -0.340, 0.000, -0.010, 2.460,
		2.460, -2.450, 1.100, 2.540, 1.290, -0.840, -0.410, 2.560, 1.630, 1.730},
	// Bull & Breese, Arch. Biochem. Biophys. 161:665-670 (1974).
	"Bull_Breese": {0.610, 0.690, 0.890, 0.610, 0.360, 0.970, 0.510, 0.810, 0.690, -1.450,
		-1.650, 0.460, -0.660, -1.520, -0.170, 0.420, 0.290, -1.200, -1.430, -0.750},
	// Guy, Biophys J. 47:61-70 (1985).
	"Guy": {0.100, 1.910, 0.480, 0.780, -1.420, 0.950, 0.830, 0.330, -0.500, -1.130,
		-1.180, 1.400, -1.590, -2.120, 0.730, 0.520, 0.070, -0.510, -0.210, -1.270},
	// Miyazawa & Jernigan, Macromolecules 18:534-552 (1985).
	"Miyazawa": {5.330, 4.180, 3.710, 3.590, 7.930, 3.870, 3.650, 4.480, 5.100, 8.830,
		8.470, 2.950, 8.950, 9.030, 3.870, 4.090, 4.490, 7.660, 5.890, 7.630},
	// Roseman, J. Mol. Biol. 200:513-522 (1988).
	"Roseman": {0.390, -3.950, -1.910, -3.810, 0.250, -1.300, -2.910, 0.000, -0.640, 1.820,
		1.820, -2.770, 0.960, 2.270, 0.990, -1.240, -1.000, 2.130, 1.470, 1.300},
	// Wolfenden et al., Biochemistry 20:849-855 (1981).
	"Wolfenden": {1.940, -19.920, -9.680, -10.950, -1.240, -9.380, -10.200, 2.390, -10.270, 2.150,
		2.280, -9.520, -1.480, -0.760, 0.000, -5.060, -4.880, -5.880, -6.110, 1.990},
	// Eisenberg et al., J. Mol. Biol. 179:125-142 (1984).
	"Eisenberg": {0.620, -2.530, -0.780, -0.900, 0.290, -0.850, -0.740, 0.480, -0.400, 1.380,
		1.060, -1.500, 0.640, 1.190, 0.120, -0.180, -0.050, 0.810, 0.260, 1.080},
	// Hopp & Woods, PNAS 78:3824-3828 (1981).
	"Hopp_Woods": {-0.500, 3.000, 0.200, 3.000, -1.000, 0.200, 3.000, 0.000, -0.500, -1.800,
		-1.800, 3.000, -1.300, -2.500, 0.000, 0.300, -0.400, -3.400, -2.300, -1.500},
	// Manavalan & Ponnuswamy, Nature 275:673-674 (1978).
	"Manavalan": {12.970, 11.720, 11.420, 10.850, 14.630, 11.760, 11.890, 12.430, 12.160, 15.670,
		14.900, 11.360, 14.390, 14.000, 11.370, 11.230, 11.690, 13.930, 13.420, 15.710},
	// Black & Mould, Anal. Biochem. 193:72-82 (1991).
	"Black": {0.616, 0.000, 0.236, 0.028, 0.680, 0.251, 0.043, 0.501, 0.165, 0.943,
		0.943, 0.283, 0.738, 1.000, 0.711, 0.359, 0.450, 0.878, 0.880, 0.825},
	// Fauchere & Pliska, Eur. J. Med. Chem. 18:369-375 (1983).
	"Fauchere": {0.310, -1.010, -0.600, -0.770, 1.540, -0.220, -0.640, 0.000, 0.130, 1.800,
		1.700, -0.990, 1.230, 1.790, 0.720, -0.040, 0.260, 2.250, 0.960, 1.220},
	// Janin, Nature 277:491-492 (1979).
	"Janin": {0.300, -1.400, -0.500, -0.600, 0.900, -0.700, -0.700, 0.300, -0.100, 0.700,
		0.500, -1.800, 0.400, 0.500, -0.300, -0.100, -0.200, 0.300, -0.400, 0.600},
	// Rao & Argos, Biochim. Biophys. Acta 869:197-214 (1986).
	"Rao_Argos": {1.360, 0.150, 0.330, 0.110, 1.270, 0.330, 0.250, 1.090, 0.680, 1.440,
		1.470, 0.090, 1.420, 1.570, 0.540, 0.970, 1.080, 1.000, 0.830, 1.370},
	// Tanford, J. Am. Chem. Soc. 84:4240-4274 (1962).
	"Tanford": {0.620, -2.530, -0.780, -0.090, 0.290, -0.850, -0.740, 0.480, -0.400, 1.380,
		1.530, -1.500, 0.640, 1.190, 0.120, -0.180, -0.050, 0.810, 0.260, 1.800},
	// Welling et al., FEBS Lett. 188:215-218 (1985).
	"Welling": {1.150, 0.580, -0.770, 0.650, -1.200, -0.110, -0.710, -1.840, 3.120, -2.920,
		0.750, 2.060, -3.850, -1.410, -0.530, -0.260, -0.450, -1.140, 0.130, -0.130},
}

var reversedScales = map[string]bool{
	"Guy":         true,
	"Hopp_Woods":  true,
	"Welling":     true,
	"Bull_Breese": true,
}

// IsReversedScale reports whether the named scale uses the reverse colour table.
func IsReversedScale(name string) bool {
	return reversedScales[name]
}

// ScaleNames returns the names of all built-in scales in lexical order.
func ScaleNames() []string {
	names := make([]string, 0, len(builtinScales))
	for name := range builtinScales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupScale returns a fresh copy of the named built-in scale.
func LookupScale(name string) (*Scale, error) {
	table, ok := builtinScales[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownScale, "hydrophobicity scale is not registered").
			WithDetail("scale=" + name)
	}
	values := make(map[ResidueType]float64, len(table))
	for i, v := range table {
		values[ResidueType(i+1)] = v
	}
	return &Scale{Name: name, Values: values, Reversed: reversedScales[name]}, nil
}

// BuiltinScales returns every built-in scale ordered by name.
func BuiltinScales() []*Scale {
	names := ScaleNames()
	out := make([]*Scale, 0, len(names))
	for _, name := range names {
		s, _ := LookupScale(name)
		out = append(out, s)
	}
	return out
}

//Personal.AI order the ending
