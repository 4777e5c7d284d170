package capture

// PixelFormat selects the pixel encoding the engine should emit.
type PixelFormat int

const (
	// FormatAuto lets the engine pick whatever its source produces natively.
	FormatAuto PixelFormat = iota
	// FormatBGRA requests 4-byte B,G,R,A pixels.
	FormatBGRA
	// FormatRGBx requests 4-byte R,G,B pixels with a padding byte.
	FormatRGBx
)

// Options configures one capture session.
type Options struct {
	// FPS is the requested frame rate. Single-shot callers should ask for 1
	// so the engine does not buffer frames ahead of the first read.
	FPS int
	// Format is the requested output pixel encoding.
	Format PixelFormat
	// Target selects what to capture. Nil means the primary display.
	Target *Target
	// MaxDimension caps the longest output edge in pixels. Zero means no cap.
	MaxDimension int
	// ShowHighlight asks the engine to draw a capture-indicator border.
	ShowHighlight bool
}

// Engine is the capture collaborator. One engine supports at most one active
// session; Start before Stop of a previous session is undefined, which is why
// Session serializes access.
type Engine interface {
	// Supported reports whether this host can capture at all.
	Supported() bool
	// HasPermission reports whether screen recording permission is granted.
	HasPermission() bool
	// RequestPermission triggers the OS permission prompt out-of-band.
	RequestPermission()
	// Targets lists every capturable display and window in engine order.
	Targets() ([]Target, error)
	// Start begins a capture session.
	Start(Options) error
	// NextFrame blocks until the session produces a frame.
	NextFrame() (Frame, error)
	// Stop tears the session down. Safe to call after a failed Start.
	Stop()
}
