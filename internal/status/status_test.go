package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 9)

	seen := make(map[Code]bool)
	for _, label := range labels {
		code, err := Encode(label)
		require.NoError(t, err, label)
		assert.False(t, seen[code], "code %s assigned twice", code)
		seen[code] = true
		assert.Equal(t, label, Decode(code))
	}
}

func TestEncodeUnknownLabel(t *testing.T) {
	_, err := Encode("Lost At Sea")
	assert.Error(t, err)
}

func TestDecodeUnknownCodeFallsBack(t *testing.T) {
	assert.Equal(t, "In Shop", Decode(Code("NOT_A_STATUS")))
	assert.Equal(t, "In Shop", Decode(Code("")))
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("STAGED_DOCK"))
	assert.False(t, ValidCode("Staged (Dock)"))
}
