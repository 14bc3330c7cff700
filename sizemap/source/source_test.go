package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segalloc/sizemap"
)

// Sources plug straight into sizemap.New.
func TestNewWithSources(t *testing.T) {
	infos := append([]sizemap.Info(nil), sizemap.DefaultTables().Default...)
	infos[1].NumToMove = 64

	t.Setenv(DefaultSizeClassesEnv, FormatSizeClasses(infos))
	t.Setenv(DefaultExperimentsEnv, "TEST_ONLY_POW2_SIZECLASS")

	m, err := sizemap.New(sizemap.Options{
		Experiments: ExperimentsFromEnv(""),
		Override:    Env(""),
	})
	require.NoError(t, err)

	// Override replaced the pow2 variant
	assert.Equal(t, len(infos), m.NumPopulatedClasses())
	assert.Equal(t, 64, m.NumObjectsToMove(1))
}

func TestNewWithFile(t *testing.T) {
	data, err := Encode(sizemap.DefaultTables().Default)
	require.NoError(t, err)
	path := writeTemp(t, "classes.toml", string(data))

	m, err := sizemap.New(sizemap.Options{Override: File(path)})
	require.NoError(t, err)
	assert.True(t, m.TryLoadOverride(File(path)))
}
