package sizemap

import "errors"

// OverrideSource supplies a replacement size-class list. Entry 0 must be the
// reserved {0, 0, 0} class. Sources return ErrNoOverride when they have
// nothing to offer.
type OverrideSource interface {
	SizeClasses() ([]Info, error)
}

// OverrideFunc adapts a function to OverrideSource.
type OverrideFunc func() ([]Info, error)

// SizeClasses implements OverrideSource.
func (f OverrideFunc) SizeClasses() ([]Info, error) { return f() }

// TryLoadOverride replaces the active tables with the classes supplied by
// src. It returns false, leaving the current tables untouched, when src has
// nothing, fails, supplies an invalid list, or changes the class count.
//
// Tables are rewritten in place. Callers must ensure nothing reads the
// SizeMap concurrently.
func (m *SizeMap) TryLoadOverride(src OverrideSource) bool {
	if !m.loadOverride(src) {
		return false
	}
	m.buildLookup()
	m.classifyCold()
	return true
}

// loadOverride rebuilds only the class table.
func (m *SizeMap) loadOverride(src OverrideSource) bool {
	if src == nil {
		return false
	}

	infos, err := src.SizeClasses()
	if errors.Is(err, ErrNoOverride) {
		return false
	}
	if err != nil {
		m.log.Warn("size class override unavailable", "error", err)
		return false
	}

	if !m.validSizeClasses(infos) {
		return false
	}

	// An equal count with strictly increasing sizes also rules out overrides
	// that populate fewer classes than they declare.
	if len(infos) != m.expectedCount {
		m.log.Warn("can't change the number of size classes",
			"reason", ErrClassCountMismatch.Error(),
			"value", len(infos), "limit", m.expectedCount)
		return false
	}

	m.setSizeClasses(infos, false)
	m.log.Info("loaded valid runtime size classes", "count", len(infos))
	return true
}
