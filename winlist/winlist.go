// Package winlist merges the platform window table with the capture engine's
// capturable-window indices into one listing. The native API is authoritative
// for ordering and completeness; capture indices are a derived annotation.
package winlist

// UnknownOwner is the placeholder owner name for windows whose owning
// process could not be identified.
const UnknownOwner = "Unknown"

// NotCapturable is the sentinel index for native windows absent from the
// capture engine's enumeration.
const NotCapturable = -1

// minRelevantSize is the bounds threshold below which an untitled window is
// treated as desktop furniture and suppressed.
const minRelevantSize = 50

// NativeWindowRecord is a read-only view of one window as reported by the
// platform windowing API.
type NativeWindowRecord struct {
	ID       uint64
	PID      int
	Layer    int
	X        int
	Y        int
	Width    int
	Height   int
	Alpha    float64
	OnScreen bool
	Owner    string
	Title    string
}

// Row is a native window record joined with the capture engine's window
// index, or NotCapturable when the window is not independently capturable.
type Row struct {
	NativeWindowRecord
	Index int
}

// Capturable reports whether the row carries a capture index.
func (r Row) Capturable() bool { return r.Index != NotCapturable }

// Lister produces the correlated window listing. Exactly one backend exists
// per target platform, chosen at build time.
type Lister struct {
	backend backend
	indices func() (map[uint64]int, error)
}

type backend interface {
	nativeWindows() ([]NativeWindowRecord, error)
	close()
}

// New builds the platform lister. indices supplies the capture engine's
// native-ID-to-window-index mapping; it is invoked fresh on every listing so
// the two snapshots are taken close together, though never atomically — rows
// can briefly reference a since-closed window.
func New(indices func() (map[uint64]int, error)) (*Lister, error) {
	b, err := newBackend()
	if err != nil {
		return nil, err
	}
	return &Lister{backend: b, indices: indices}, nil
}

// Close releases any native resources held by the backend.
func (l *Lister) Close() {
	l.backend.close()
}

// ListCorrelated takes both snapshots and joins them. Output preserves
// native enumeration order, not index order.
func (l *Lister) ListCorrelated() ([]Row, error) {
	indices, err := l.indices()
	if err != nil {
		return nil, err
	}
	native, err := l.backend.nativeWindows()
	if err != nil {
		return nil, err
	}
	return correlate(native, indices), nil
}

// TotalNative returns the unfiltered native window count from the last
// backend enumeration, for the listing summary line.
func (l *Lister) TotalNative() int {
	if c, ok := l.backend.(interface{ total() int }); ok {
		return c.total()
	}
	return 0
}

// relevant suppresses desktop furniture: a record survives if it has a
// title, or a known owner and bounds above the minimum size threshold.
func relevant(rec NativeWindowRecord) bool {
	if rec.Title != "" {
		return true
	}
	return rec.Owner != "" && rec.Owner != UnknownOwner &&
		(rec.Width > minRelevantSize || rec.Height > minRelevantSize)
}

// correlate left-outer-joins the native record set against the capture index
// mapping, keyed on native window ID, in native order.
func correlate(native []NativeWindowRecord, indices map[uint64]int) []Row {
	rows := make([]Row, 0, len(native))
	for _, rec := range native {
		if !relevant(rec) {
			continue
		}
		row := Row{NativeWindowRecord: rec, Index: NotCapturable}
		if idx, ok := indices[rec.ID]; ok {
			row.Index = idx
		}
		rows = append(rows, row)
	}
	return rows
}

// Truncate shortens a string to max runes with an ellipsis marker.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
