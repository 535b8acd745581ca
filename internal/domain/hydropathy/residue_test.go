package hydropathy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/pkg/errors"
)

func TestResidueType_String(t *testing.T) {
	assert.Equal(t, "ALA", Ala.String())
	assert.Equal(t, "VAL", Val.String())
	assert.Equal(t, "UNK", ResidueUnknown.String())
	assert.Equal(t, "UNK", ResidueType(99).String())
}

func TestResidueType_IsValid(t *testing.T) {
	assert.True(t, Ala.IsValid())
	assert.True(t, Val.IsValid())
	assert.False(t, ResidueUnknown.IsValid())
	assert.False(t, ResidueType(21).IsValid())
}

func TestAllResidueTypes(t *testing.T) {
	all := AllResidueTypes()
	require.Len(t, all, 20)
	assert.Equal(t, Ala, all[0])
	assert.Equal(t, Val, all[19])
}

func TestParseResidueType(t *testing.T) {
	rt, err := ParseResidueType("leu")
	require.NoError(t, err)
	assert.Equal(t, Leu, rt)

	_, err = ParseResidueType("XAA")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownResidueType))
}

func TestResidueTypeFromID(t *testing.T) {
	tests := []struct {
		id      string
		want    ResidueType
		wantErr bool
	}{
		{"ALA42", Ala, false},
		{"his117A", His, false},
		{"TRP1", Trp, false},
		{"GLY", Gly, false},
		{"XAA7", ResidueUnknown, true},
		{"AL", ResidueUnknown, true},
		{"", ResidueUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ResidueTypeFromID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownResidueType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

//Personal.AI order the ending
