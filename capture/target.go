package capture

import "fmt"

// Kind distinguishes the two capturable target types.
type Kind int

const (
	KindDisplay Kind = iota
	KindWindow
)

func (k Kind) String() string {
	if k == KindWindow {
		return "window"
	}
	return "screen"
}

// Target is one capturable surface as reported by the capture engine.
// Identity is the platform ID, not the position in any list.
type Target struct {
	Kind  Kind
	ID    uint64
	Title string
}

// IndexedTarget pairs a target with its zero-based index within its own
// kind. Indices are recomputed on every enumeration and are only meaningful
// against the snapshot that produced them.
type IndexedTarget struct {
	Target
	Index int
}

// Snapshot is one enumeration of the engine's target list, partitioned into
// independently indexed display and window lists.
type Snapshot struct {
	Displays []IndexedTarget
	Windows  []IndexedTarget
}

// IndexOutOfRangeError reports a user-selected index past the end of the
// snapshot's list for that kind. Available is the list length, so the valid
// range is 0..Available-1.
type IndexOutOfRangeError struct {
	Kind      Kind
	Requested int
	Available int
}

func (e *IndexOutOfRangeError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("%s %d not found: no %ss available", e.Kind, e.Requested, e.Kind)
	}
	return fmt.Sprintf("%s %d not found: available %ss are 0-%d", e.Kind, e.Requested, e.Kind, e.Available-1)
}

// Enumerate walks the engine's target list once in engine order and assigns
// the next display index to each display and the next window index to each
// window. Indices are dense per kind regardless of how the engine interleaves
// the two.
func Enumerate(e Engine) (*Snapshot, error) {
	targets, err := e.Targets()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture targets: %w", err)
	}

	snap := &Snapshot{}
	for _, t := range targets {
		switch t.Kind {
		case KindDisplay:
			snap.Displays = append(snap.Displays, IndexedTarget{Target: t, Index: len(snap.Displays)})
		case KindWindow:
			snap.Windows = append(snap.Windows, IndexedTarget{Target: t, Index: len(snap.Windows)})
		}
	}
	return snap, nil
}

// Resolve maps a user-facing index back to the underlying target.
func (s *Snapshot) Resolve(kind Kind, index int) (Target, error) {
	list := s.Displays
	if kind == KindWindow {
		list = s.Windows
	}
	if index < 0 || index >= len(list) {
		return Target{}, &IndexOutOfRangeError{Kind: kind, Requested: index, Available: len(list)}
	}
	return list[index].Target, nil
}

// WindowIndices returns the native-ID-to-index mapping for the snapshot's
// windows, the capture side of the window-identity join.
func (s *Snapshot) WindowIndices() map[uint64]int {
	m := make(map[uint64]int, len(s.Windows))
	for _, w := range s.Windows {
		m[w.ID] = w.Index
	}
	return m
}
