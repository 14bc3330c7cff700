// Package sizemap builds the size-class tables of a segregated-size allocator.
//
// # Overview
//
// Every request size up to Geometry.MaxSize is served from one of a small,
// fixed set of size classes. This package decides which classes exist and
// maps an arbitrary byte count to its class in O(1). It does not allocate
// memory; page management and per-thread caches consume the class ids it
// returns.
//
// # Building
//
// New runs the whole construction once:
//
//   - picks a compiled-in variant (Tables) according to the active experiments
//   - optionally replaces it with an override from an OverrideSource
//   - builds the class table and replicates it into every register
//   - builds the size-to-class lookup table
//   - classifies cold-eligible classes when the cold feature is active
//
// Example:
//
//	m, err := sizemap.New(sizemap.Options{
//	    Experiments:       source.ExperimentsFromEnv(source.DefaultExperimentsEnv),
//	    ColdFeatureActive: func() bool { return true },
//	    Override:          source.Env(source.DefaultSizeClassesEnv),
//	})
//	if err != nil {
//	    return err
//	}
//	cl := m.ClassIndexOf(100) // 104-byte class
//	size := m.ClassSize(cl)
//
// # Size Classes
//
// A class is valid when sizes strictly increase, each size is aligned to its
// tier, and the last class is exactly MaxSize:
//
//	size <= MultiPageSize   aligned to Alignment, exactly one page
//	size <= MaxSmallSize    aligned to MultiPageAlignment
//	larger                  aligned to 128
//
// Spans are limited to 255 pages and transfer batches to MaxObjectsToMove.
//
// # Registers
//
// The allocator tags memory by partition. Each partition ("register") has its
// own copy of the class table; class id cl lives in register
// cl / NumBaseClasses. With ExpandedClasses the second register serves cold
// memory and the lookup table gets a matching cold register, selected with
// AccessCold.
//
// # Errors
//
// A list that fails validation is a configuration problem: it is logged with
// its reason, index, value and limit and then discarded. A table that
// contradicts itself after construction is a bug; the package panics with
// *InvariantError.
//
// # Thread Safety
//
// Construction is single-threaded. Once New returns, every query method may
// be called concurrently. TryLoadOverride rewrites the tables in place and
// must only run while no other goroutine uses the SizeMap.
package sizemap
