package correlator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a, err := NewArtifact(KindFile, "C:/a.txt")
		require.NoError(t, err)
		assert.Equal(t, KindFile, a.Kind)
		assert.Equal(t, "C:/a.txt", a.Name)
		assert.Equal(t, "File:C:/a.txt", a.key())
	})

	t.Run("undefined kind", func(t *testing.T) {
		_, err := NewArtifact(KindUndefined, "x")
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewArtifact(KindFile, "")
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}

func TestArtifactKindString(t *testing.T) {
	cases := map[ArtifactKind]string{
		KindFile:      "File",
		KindRegistry:  "Registry",
		KindNetwork:   "Network",
		KindProcess:   "Process",
		KindModule:    "Module",
		KindUndefined: "Undefined",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}
