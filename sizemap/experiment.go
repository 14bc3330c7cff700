package sizemap

import "strings"

// Experiment names a start-up switch that selects a compiled-in variant.
type Experiment uint8

const (
	ExperimentPow2TestOnly Experiment = iota
	ExperimentPow2Below64
	ExperimentPow2Below64TestOnly
	ExperimentCFLAware
	ExperimentCFLAwareTestOnly
	ExperimentReducedBelow64
	ExperimentReducedBelow64TestOnly

	numExperiments
)

var experimentLabels = [numExperiments]string{
	ExperimentPow2TestOnly:           "TEST_ONLY_POW2_SIZECLASS",
	ExperimentPow2Below64:            "POW2_BELOW_64",
	ExperimentPow2Below64TestOnly:    "TEST_ONLY_POW2_BELOW64_SIZECLASS",
	ExperimentCFLAware:               "CFL_AWARE_SIZE_CLASS",
	ExperimentCFLAwareTestOnly:       "TEST_ONLY_CFL_AWARE_SIZECLASS",
	ExperimentReducedBelow64:         "REDUCED_BELOW_64",
	ExperimentReducedBelow64TestOnly: "TEST_ONLY_REDUCED_BELOW64_SIZECLASS",
}

func (e Experiment) String() string {
	if e < numExperiments {
		return experimentLabels[e]
	}
	return "UNKNOWN_EXPERIMENT"
}

// ParseExperiment maps a label (case-insensitive) back to its Experiment.
func ParseExperiment(label string) (Experiment, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for e, l := range experimentLabels {
		if l == label {
			return Experiment(e), true
		}
	}
	return 0, false
}

// ExperimentFunc reports whether an experiment is active. It is consulted
// only while a SizeMap is being built.
type ExperimentFunc func(Experiment) bool

// ExperimentSet is an ExperimentFunc backed by a fixed set.
type ExperimentSet map[Experiment]bool

// Active implements ExperimentFunc.
func (s ExperimentSet) Active(e Experiment) bool { return s[e] }

func noExperiments(Experiment) bool { return false }
