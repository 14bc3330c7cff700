package sizemap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// tinyGeometry is the 8-byte-aligned, 32-byte-ceiling geometry used for
// hand-checkable examples.
func tinyGeometry() Geometry {
	g := DefaultGeometry()
	g.Name = "tiny"
	g.MaxSize = 32
	g.NumBaseClasses = 4
	g.ExpandedClasses = false
	return g
}

func tinyClasses() []Info {
	return []Info{
		{0, 0, 0},
		{8, 1, 32},
		{16, 1, 16},
		{32, 1, 8},
	}
}

func tinyTables() Tables {
	return Tables{Default: tinyClasses()}
}

// cloneInfos returns a copy safe to mutate.
func cloneInfos(infos []Info) []Info {
	return append([]Info(nil), infos...)
}

// newTestLogger returns a JSON logger writing into the returned buffer.
func newTestLogger(t testing.TB) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// logRecords decodes every JSON record written to buf.
func logRecords(t testing.TB, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var recs []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		recs = append(recs, rec)
	}
	require.NoError(t, sc.Err())
	return recs
}

// findRecord returns the first record with the given message.
func findRecord(t testing.TB, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, rec := range logRecords(t, buf) {
		if rec["msg"] == msg {
			return rec
		}
	}
	require.Failf(t, "log record not found", "msg %q in %s", msg, buf.String())
	return nil
}

// newSizeMap builds a SizeMap and fails the test on error.
func newSizeMap(t testing.TB, opts Options) *SizeMap {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger, _ = newTestLogger(t)
	}
	m, err := New(opts)
	require.NoError(t, err)
	return m
}

// requireInvariantPanic asserts fn panics with *InvariantError.
func requireInvariantPanic(t testing.TB, fn func()) *InvariantError {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	require.NotNil(t, got, "expected panic")
	ierr, ok := got.(*InvariantError)
	require.Truef(t, ok, "panic value %T is not *InvariantError", got)
	return ierr
}

// alwaysCold enables the cold classifier.
func alwaysCold() bool { return true }

// snapshot captures every class attribute and both lookup registers.
type snapshot struct {
	infos  []Info
	lookup [][]uint8
	cold   []int
}

func takeSnapshot(m *SizeMap) snapshot {
	s := snapshot{cold: m.ColdClasses()}
	for cl := 0; cl < m.NumClasses(); cl++ {
		s.infos = append(s.infos, m.ClassInfo(cl))
	}
	for _, reg := range m.lookup.regs {
		s.lookup = append(s.lookup, append([]uint8(nil), reg...))
	}
	return s
}
