package capture

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
)

// ScreenEngine is the default Engine backend, built on the cross-platform
// screenshot library. It enumerates displays only: window-level capture is
// not something the library offers, so the window list is empty and window
// rows in a correlated listing all read as not capturable.
type ScreenEngine struct {
	mu      sync.Mutex
	running bool
	opts    Options
	bounds  image.Rectangle
}

func NewScreenEngine() *ScreenEngine {
	return &ScreenEngine{}
}

func (e *ScreenEngine) Supported() bool {
	return screenshot.NumActiveDisplays() > 0
}

// HasPermission reports true: the backends this library drives (X11, GDI,
// CoreGraphics one-shot reads) do not expose a queryable permission state,
// and a denied grab surfaces as a capture error instead.
func (e *ScreenEngine) HasPermission() bool {
	return true
}

// RequestPermission is a no-op; see HasPermission.
func (e *ScreenEngine) RequestPermission() {}

func (e *ScreenEngine) Targets() ([]Target, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	targets := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		targets = append(targets, Target{
			Kind:  KindDisplay,
			ID:    uint64(i),
			Title: fmt.Sprintf("Display %d (%dx%d)", i, b.Dx(), b.Dy()),
		})
	}
	return targets, nil
}

func (e *ScreenEngine) Start(opts Options) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return fmt.Errorf("capture session already running")
	}

	bounds, err := targetBounds(opts.Target)
	if err != nil {
		return err
	}
	e.opts = opts
	e.bounds = bounds
	e.running = true
	return nil
}

func targetBounds(t *Target) (image.Rectangle, error) {
	if t == nil {
		if screenshot.NumActiveDisplays() == 0 {
			return image.Rectangle{}, fmt.Errorf("no active displays found")
		}
		return screenshot.GetDisplayBounds(0), nil
	}
	if t.Kind != KindDisplay {
		return image.Rectangle{}, fmt.Errorf("window capture is not supported by this engine")
	}
	if int(t.ID) >= screenshot.NumActiveDisplays() {
		return image.Rectangle{}, fmt.Errorf("display %d is no longer attached", t.ID)
	}
	return screenshot.GetDisplayBounds(int(t.ID)), nil
}

// NextFrame grabs one frame of the session's display and repacks it into the
// requested pixel format. The source bitmap is RGBA, which doubles as the
// RGBx variant when the format selector asks for auto or RGBx.
func (e *ScreenEngine) NextFrame() (Frame, error) {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("capture session not running")
	}
	bounds := e.bounds
	format := e.opts.Format
	e.mu.Unlock()

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %w", err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(data[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:])
	}

	ts := uint64(time.Now().UnixNano())
	if format == FormatBGRA {
		for i := 0; i < len(data); i += 4 {
			data[i], data[i+2] = data[i+2], data[i]
		}
		return &BGRAFrame{Width: w, Height: h, DisplayTime: ts, Data: data}, nil
	}
	return &RGBxFrame{Width: w, Height: h, Data: data}, nil
}

func (e *ScreenEngine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// Running reports whether a session is active. Diagnostic probe.
func (e *ScreenEngine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}
