package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		name string
		want Type
	}{
		{"VALUE", TypeValue},
		{"PERCENTAGE", TypePercentage},
		{"UNKNOWN", TypeUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseType(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.name, got.String(), "String should invert ParseType")
		})
	}
}

func TestParseType_Unrecognized(t *testing.T) {
	for _, name := range []string{"", "value", "Percentage", "BOGOF"} {
		_, err := ParseType(name)
		require.Error(t, err, "name %q should not parse", name)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, CodeInvalidEnumValue, ve.Code)
		assert.Equal(t, "type", ve.Field)
	}
}

func TestType_String_OutOfRange(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Type(42).String())
}
