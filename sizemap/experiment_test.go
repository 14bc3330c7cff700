package sizemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperiment_Labels(t *testing.T) {
	seen := map[string]bool{}
	for e := Experiment(0); e < numExperiments; e++ {
		label := e.String()
		assert.NotEmpty(t, label)
		assert.False(t, seen[label], "duplicate label %s", label)
		seen[label] = true

		got, ok := ParseExperiment(label)
		assert.True(t, ok, label)
		assert.Equal(t, e, got)
	}
	assert.Equal(t, "UNKNOWN_EXPERIMENT", numExperiments.String())
}

func TestParseExperiment(t *testing.T) {
	e, ok := ParseExperiment("  cfl_aware_size_class ")
	assert.True(t, ok)
	assert.Equal(t, ExperimentCFLAware, e)

	_, ok = ParseExperiment("BIGGER_PAGES")
	assert.False(t, ok)
	_, ok = ParseExperiment("")
	assert.False(t, ok)
}

func TestExperimentSet(t *testing.T) {
	set := ExperimentSet{ExperimentReducedBelow64: true, ExperimentCFLAware: false}
	assert.True(t, set.Active(ExperimentReducedBelow64))
	assert.False(t, set.Active(ExperimentCFLAware))
	assert.False(t, set.Active(ExperimentPow2TestOnly))

	var empty ExperimentSet
	assert.False(t, empty.Active(ExperimentPow2TestOnly))
}
