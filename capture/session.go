package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrUnsupported means the host lacks capture capability entirely.
	ErrUnsupported = errors.New("screen capture not supported on this host")
	// ErrPermissionDenied means screen recording permission was not granted.
	ErrPermissionDenied = errors.New("screen recording permission not granted")
	// ErrFrameTimeout means no frame arrived within the configured bound.
	ErrFrameTimeout = errors.New("timed out waiting for a frame")
	// ErrUnexpectedKind means the engine produced an audio frame.
	ErrUnexpectedKind = errors.New("received audio frame, expected video")
)

// EngineStartError wraps an engine initialization failure.
type EngineStartError struct {
	Err error
}

func (e *EngineStartError) Error() string {
	return fmt.Sprintf("capture engine failed to start: %v", e.Err)
}

func (e *EngineStartError) Unwrap() error { return e.Err }

// Session owns an engine for single-frame captures. The mutex gives each
// CaptureOnce call exclusive use of the engine handle; the engine does not
// support overlapping sessions.
type Session struct {
	mu     sync.Mutex
	engine Engine
}

func NewSession(e Engine) *Session {
	return &Session{engine: e}
}

// CaptureOnce starts the engine, blocks for at most timeout for one video
// frame, and stops the engine on every exit path. The session requests 1 FPS
// and BGRA output so the engine neither buffers frames ahead of the single
// read nor hands back a variant it could have converted at the source.
func (s *Session) CaptureOnce(target Target, timeout time.Duration) (VideoFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Supported() {
		return nil, ErrUnsupported
	}
	if !s.engine.HasPermission() {
		return nil, ErrPermissionDenied
	}

	opts := Options{
		FPS:    1,
		Format: FormatBGRA,
		Target: &target,
	}
	if err := s.engine.Start(opts); err != nil {
		return nil, &EngineStartError{Err: err}
	}
	defer s.engine.Stop()

	type result struct {
		frame Frame
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		f, err := s.engine.NextFrame()
		ch <- result{frame: f, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("frame capture failed: %w", r.err)
		}
		vf, ok := r.frame.(VideoFrame)
		if !ok {
			return nil, ErrUnexpectedKind
		}
		return vf, nil
	case <-time.After(timeout):
		// The engine goroutine may still deliver into the buffered channel;
		// the frame is dropped and the deferred Stop tears the session down.
		return nil, ErrFrameTimeout
	}
}
