//go:build linux

package winlist

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// x11Backend walks the EWMH stacking list for the full window set. The
// stacking position doubles as the z-order layer.
type x11Backend struct {
	xu        *xgbutil.XUtil
	lastTotal int
}

func newBackend() (backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &x11Backend{xu: xu}, nil
}

func (b *x11Backend) close() {
	b.xu.Conn().Close()
}

func (b *x11Backend) total() int { return b.lastTotal }

func (b *x11Backend) nativeWindows() ([]NativeWindowRecord, error) {
	clients, err := ewmh.ClientListStackingGet(b.xu)
	if err != nil {
		// Some window managers only maintain the plain client list.
		clients, err = ewmh.ClientListGet(b.xu)
		if err != nil {
			return nil, fmt.Errorf("failed to get window list: %w", err)
		}
	}
	b.lastTotal = len(clients)

	records := make([]NativeWindowRecord, 0, len(clients))
	for i, win := range clients {
		rec := NativeWindowRecord{
			ID:       uint64(win),
			Layer:    i,
			Alpha:    windowOpacity(b.xu, win),
			OnScreen: !windowHidden(b.xu, win),
			Owner:    windowOwner(b.xu, win),
			Title:    windowTitle(b.xu, win),
		}
		if pid, err := ewmh.WmPidGet(b.xu, win); err == nil {
			rec.PID = int(pid)
		}
		if geom, err := xwindow.New(b.xu, win).DecorGeometry(); err == nil {
			rec.X = geom.X()
			rec.Y = geom.Y()
			rec.Width = geom.Width()
			rec.Height = geom.Height()
		}
		records = append(records, rec)
	}
	return records, nil
}

func windowTitle(xu *xgbutil.XUtil, win xproto.Window) string {
	if name, err := ewmh.WmNameGet(xu, win); err == nil && name != "" {
		return name
	}
	// Fall back to the ICCCM name for clients that never set _NET_WM_NAME.
	if name, err := icccm.WmNameGet(xu, win); err == nil {
		return name
	}
	return ""
}

func windowOwner(xu *xgbutil.XUtil, win xproto.Window) string {
	class, err := icccm.WmClassGet(xu, win)
	if err != nil || class.Class == "" {
		return UnknownOwner
	}
	return class.Class
}

func windowOpacity(xu *xgbutil.XUtil, win xproto.Window) float64 {
	raw, err := xprop.PropValNum(xprop.GetProperty(xu, win, "_NET_WM_WINDOW_OPACITY"))
	if err != nil {
		return 1.0
	}
	return float64(raw) / float64(0xFFFFFFFF)
}

func windowHidden(xu *xgbutil.XUtil, win xproto.Window) bool {
	states, err := ewmh.WmStateGet(xu, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}
