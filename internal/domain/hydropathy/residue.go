package hydropathy

import (
	"strings"

	"github.com/turtacn/hydromoment/pkg/errors"
)

// ResidueType enumerates the 20 standard amino-acid residue types.
type ResidueType int

const (
	ResidueUnknown ResidueType = iota
	Ala
	Arg
	Asn
	Asp
	Cys
	Gln
	Glu
	Gly
	His
	Ile
	Leu
	Lys
	Met
	Phe
	Pro
	Ser
	Thr
	Trp
	Tyr
	Val
)

// ResidueCodeLength is the length of a residue-type prefix in an identifier.
const ResidueCodeLength = 3

var residueCodes = [...]string{
	ResidueUnknown: "UNK",
	Ala:            "ALA",
	Arg:            "ARG",
	Asn:            "ASN",
	Asp:            "ASP",
	Cys:            "CYS",
	Gln:            "GLN",
	Glu:            "GLU",
	Gly:            "GLY",
	His:            "HIS",
	Ile:            "ILE",
	Leu:            "LEU",
	Lys:            "LYS",
	Met:            "MET",
	Phe:            "PHE",
	Pro:            "PRO",
	Ser:            "SER",
	Thr:            "THR",
	Trp:            "TRP",
	Tyr:            "TYR",
	Val:            "VAL",
}

var residueByCode = func() map[string]ResidueType {
	m := make(map[string]ResidueType, len(residueCodes)-1)
	for rt := Ala; rt <= Val; rt++ {
		m[residueCodes[rt]] = rt
	}
	return m
}()

// String returns the 3-letter code of the residue type.
func (r ResidueType) String() string {
	if r < ResidueUnknown || int(r) >= len(residueCodes) {
		return residueCodes[ResidueUnknown]
	}
	return residueCodes[r]
}

// IsValid reports whether r is one of the 20 standard types.
func (r ResidueType) IsValid() bool {
	return r >= Ala && r <= Val
}

// AllResidueTypes returns the 20 standard residue types in enum order.
func AllResidueTypes() []ResidueType {
	out := make([]ResidueType, 0, Val)
	for rt := Ala; rt <= Val; rt++ {
		out = append(out, rt)
	}
	return out
}

// ParseResidueType parses a 3-letter code, case-insensitively.
func ParseResidueType(code string) (ResidueType, error) {
	if rt, ok := residueByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return rt, nil
	}
	return ResidueUnknown, errors.New(errors.ErrCodeUnknownResidueType, "unknown residue type").
		WithDetail("code=" + code)
}

// ResidueTypeFromID extracts the residue type from an identifier such as
// "ALA42" or "his117A". Only the first three characters are significant.
func ResidueTypeFromID(id string) (ResidueType, error) {
	if len(id) < ResidueCodeLength {
		return ResidueUnknown, errors.New(errors.ErrCodeUnknownResidueType, "residue identifier too short").
			WithDetail("residue=" + id)
	}
	rt, ok := residueByCode[strings.ToUpper(id[:ResidueCodeLength])]
	if !ok {
		return ResidueUnknown, errors.New(errors.ErrCodeUnknownResidueType, "unknown residue type").
			WithDetail("residue=" + id)
	}
	return rt, nil
}

//Personal.AI order the ending
