package capture

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"capprobe/imaging"
)

// fakeEngine is a scriptable engine for orchestration tests.
type fakeEngine struct {
	mu         sync.Mutex
	supported  bool
	permitted  bool
	startErr   error
	frame      Frame
	frameErr   error
	frameDelay time.Duration
	running    bool
	lastOpts   Options
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{supported: true, permitted: true}
}

func (e *fakeEngine) Supported() bool           { return e.supported }
func (e *fakeEngine) HasPermission() bool       { return e.permitted }
func (e *fakeEngine) RequestPermission()        {}
func (e *fakeEngine) Targets() ([]Target, error) { return nil, nil }

func (e *fakeEngine) Start(opts Options) error {
	if e.startErr != nil {
		return e.startErr
	}
	e.mu.Lock()
	e.running = true
	e.lastOpts = opts
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) NextFrame() (Frame, error) {
	if e.frameDelay > 0 {
		time.Sleep(e.frameDelay)
	}
	return e.frame, e.frameErr
}

func (e *fakeEngine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

func (e *fakeEngine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func TestCaptureOnceUnsupported(t *testing.T) {
	engine := newFakeEngine()
	engine.supported = false
	_, err := NewSession(engine).CaptureOnce(Target{}, time.Second)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestCaptureOncePermissionDenied(t *testing.T) {
	engine := newFakeEngine()
	engine.permitted = false
	_, err := NewSession(engine).CaptureOnce(Target{}, time.Second)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("got %v, want ErrPermissionDenied", err)
	}
}

func TestCaptureOnceStartFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.startErr = fmt.Errorf("no backend")
	_, err := NewSession(engine).CaptureOnce(Target{}, time.Second)
	var startErr *EngineStartError
	if !errors.As(err, &startErr) {
		t.Fatalf("got %v, want EngineStartError", err)
	}
	if engine.Running() {
		t.Error("engine left running after failed start")
	}
}

func TestCaptureOnceTimeoutReleasesEngine(t *testing.T) {
	engine := newFakeEngine()
	engine.frameDelay = 500 * time.Millisecond
	engine.frame = &BGRAFrame{Width: 1, Height: 1, Data: make([]byte, 4)}

	_, err := NewSession(engine).CaptureOnce(Target{}, 30*time.Millisecond)
	if !errors.Is(err, ErrFrameTimeout) {
		t.Fatalf("got %v, want ErrFrameTimeout", err)
	}
	if engine.Running() {
		t.Error("engine still running after timeout; teardown must happen on every exit path")
	}
}

func TestCaptureOnceUnexpectedAudio(t *testing.T) {
	engine := newFakeEngine()
	engine.frame = &AudioFrame{}
	_, err := NewSession(engine).CaptureOnce(Target{}, time.Second)
	if !errors.Is(err, ErrUnexpectedKind) {
		t.Errorf("got %v, want ErrUnexpectedKind", err)
	}
	if engine.Running() {
		t.Error("engine left running")
	}
}

func TestCaptureOnceRequestsSingleShotOptions(t *testing.T) {
	engine := newFakeEngine()
	engine.frame = &BGRAFrame{Width: 1, Height: 1, Data: make([]byte, 4)}
	if _, err := NewSession(engine).CaptureOnce(Target{Kind: KindDisplay, ID: 3}, time.Second); err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	if engine.lastOpts.FPS != 1 {
		t.Errorf("requested FPS %d, want 1 for single-shot use", engine.lastOpts.FPS)
	}
	if engine.lastOpts.Format != FormatBGRA {
		t.Error("session must constrain the engine to BGRA output")
	}
	if engine.lastOpts.Target == nil || engine.lastOpts.Target.ID != 3 {
		t.Error("selected target not passed through to the engine")
	}
	if engine.Running() {
		t.Error("engine left running after success")
	}
}

func TestCaptureOnceEndToEnd(t *testing.T) {
	// Engine yields a 100x50 BGRA frame of constant B=10,G=20,R=30. After
	// normalize, lossless encode, and decode, every pixel must be (30,20,10).
	w, h := 100, 50
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i+0] = 10
		data[i+1] = 20
		data[i+2] = 30
		data[i+3] = 255
	}
	engine := newFakeEngine()
	engine.frame = &BGRAFrame{Width: w, Height: h, Data: data}

	frame, err := NewSession(engine).CaptureOnce(Target{Kind: KindDisplay, ID: 1}, time.Second)
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	img, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	encoded, err := imaging.Encode(img, imaging.FormatPNG, 0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := imaging.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Width != w || decoded.Height != h {
		t.Fatalf("decoded %dx%d, want %dx%d", decoded.Width, decoded.Height, w, h)
	}
	for i := 0; i < len(decoded.Pix); i += 3 {
		if decoded.Pix[i] != 30 || decoded.Pix[i+1] != 20 || decoded.Pix[i+2] != 10 {
			t.Fatalf("pixel %d = (%d,%d,%d), want (30,20,10)",
				i/3, decoded.Pix[i], decoded.Pix[i+1], decoded.Pix[i+2])
		}
	}
}
