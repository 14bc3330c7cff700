package source

import (
	"os"
	"strings"

	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/sizemap"
)

// DefaultExperimentsEnv is the variable read by ExperimentsFromEnv when no name is given.
const DefaultExperimentsEnv = "SEGALLOC_EXPERIMENTS"

// Experiments parses a comma-separated list of experiment labels.
// Unknown labels are logged and ignored.
func Experiments(list string) sizemap.ExperimentFunc {
	set := sizemap.ExperimentSet{}
	for _, label := range strings.Split(list, ",") {
		if strings.TrimSpace(label) == "" {
			continue
		}
		e, ok := sizemap.ParseExperiment(label)
		if !ok {
			logger.Warn("unknown experiment", "label", label)
			continue
		}
		set[e] = true
	}
	return set.Active
}

// ExperimentsFromEnv is Experiments applied to an environment variable.
func ExperimentsFromEnv(name string) sizemap.ExperimentFunc {
	if name == "" {
		name = DefaultExperimentsEnv
	}
	return Experiments(os.Getenv(name))
}
