package capture

// Frame is one media frame delivered by a capture engine. The concrete types
// are the video pixel-format variants below plus AudioFrame; the set is
// closed and Normalize switches over all of it.
type Frame interface {
	frame()
}

// VideoFrame is a raw video frame in one of the engine's pixel encodings.
type VideoFrame interface {
	Frame
	// Size returns the frame dimensions in pixels.
	Size() (width, height int)
}

// YUVFrame is a biplanar 4:2:0 frame: a full-resolution luma plane and a
// half-resolution plane of interleaved Cb,Cr pairs, each with its own stride.
type YUVFrame struct {
	Width             int
	Height            int
	DisplayTime       uint64
	Luminance         []byte
	LuminanceStride   int
	Chrominance       []byte
	ChrominanceStride int
}

// RGBFrame is tightly packed 3-byte R,G,B pixels.
type RGBFrame struct {
	Width       int
	Height      int
	DisplayTime uint64
	Data        []byte
}

// BGRAFrame is 4-byte B,G,R,A pixels.
type BGRAFrame struct {
	Width       int
	Height      int
	DisplayTime uint64
	Data        []byte
}

// BGRxFrame is 4-byte B,G,R pixels with a padding byte.
type BGRxFrame struct {
	Width  int
	Height int
	Data   []byte
}

// BGR0Frame is 4-byte B,G,R pixels with a zero byte.
type BGR0Frame struct {
	Width  int
	Height int
	Data   []byte
}

// RGBxFrame is 4-byte R,G,B pixels with a padding byte.
type RGBxFrame struct {
	Width  int
	Height int
	Data   []byte
}

// XBGRFrame is 4-byte pixels with a padding byte followed by B,G,R.
type XBGRFrame struct {
	Width  int
	Height int
	Data   []byte
}

// AudioFrame should never be produced by a screen capture session; the
// orchestrator rejects it with ErrUnexpectedKind.
type AudioFrame struct {
	Data []byte
}

func (*YUVFrame) frame()  {}
func (*RGBFrame) frame()  {}
func (*BGRAFrame) frame() {}
func (*BGRxFrame) frame() {}
func (*BGR0Frame) frame() {}
func (*RGBxFrame) frame() {}
func (*XBGRFrame) frame() {}
func (*AudioFrame) frame() {}

func (f *YUVFrame) Size() (int, int)  { return f.Width, f.Height }
func (f *RGBFrame) Size() (int, int)  { return f.Width, f.Height }
func (f *BGRAFrame) Size() (int, int) { return f.Width, f.Height }
func (f *BGRxFrame) Size() (int, int) { return f.Width, f.Height }
func (f *BGR0Frame) Size() (int, int) { return f.Width, f.Height }
func (f *RGBxFrame) Size() (int, int) { return f.Width, f.Height }
func (f *XBGRFrame) Size() (int, int) { return f.Width, f.Height }
