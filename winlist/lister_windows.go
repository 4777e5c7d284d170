//go:build windows

package winlist

import (
	"path/filepath"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows          = user32.NewProc("EnumWindows")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procGetWindowLongW       = user32.NewProc("GetWindowLongW")
	procGetWindowThreadPID   = user32.NewProc("GetWindowThreadProcessId")
	procGetLayeredAttributes = user32.NewProc("GetLayeredWindowAttributes")
)

const (
	gwlExStyle  = 0xFFFFFFEC // GWL_EXSTYLE (-20) as the DWORD user32 expects
	wsExTopmost = 0x00000008
	wsExLayered = 0x00080000
	lwaAlpha    = 0x00000002
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

// win32Backend enumerates top-level windows through the user32 session
// enumeration callback.
type win32Backend struct {
	enumProc  uintptr
	records   []NativeWindowRecord
	lastTotal int
}

func newBackend() (backend, error) {
	b := &win32Backend{}
	// One callback for the backend's lifetime; Windows never releases
	// callback thunks.
	b.enumProc = syscall.NewCallback(b.onWindow)
	return b, nil
}

func (b *win32Backend) close() {}

func (b *win32Backend) total() int { return b.lastTotal }

func (b *win32Backend) nativeWindows() ([]NativeWindowRecord, error) {
	b.records = nil
	b.lastTotal = 0
	procEnumWindows.Call(b.enumProc, 0)
	return b.records, nil
}

func (b *win32Backend) onWindow(hwnd uintptr, _ uintptr) uintptr {
	b.lastTotal++

	var buf [512]uint16
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	title := windows.UTF16ToString(buf[:n])

	var rect winRect
	procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect)))

	var pid uint32
	procGetWindowThreadPID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	visible, _, _ := procIsWindowVisible.Call(hwnd)
	exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(gwlExStyle))

	layer := 0
	if exStyle&wsExTopmost != 0 {
		layer = 1
	}

	b.records = append(b.records, NativeWindowRecord{
		ID:       uint64(hwnd),
		PID:      int(pid),
		Layer:    layer,
		X:        int(rect.Left),
		Y:        int(rect.Top),
		Width:    int(rect.Right - rect.Left),
		Height:   int(rect.Bottom - rect.Top),
		Alpha:    windowAlpha(hwnd, exStyle),
		OnScreen: visible != 0,
		Owner:    processName(pid),
		Title:    title,
	})

	return 1 // continue enumeration
}

func windowAlpha(hwnd uintptr, exStyle uintptr) float64 {
	if exStyle&wsExLayered == 0 {
		return 1.0
	}
	var key uint32
	var alpha byte
	var flags uint32
	ok, _, _ := procGetLayeredAttributes.Call(hwnd,
		uintptr(unsafe.Pointer(&key)),
		uintptr(unsafe.Pointer(&alpha)),
		uintptr(unsafe.Pointer(&flags)))
	if ok == 0 || flags&lwaAlpha == 0 {
		return 1.0
	}
	return float64(alpha) / 255.0
}

func processName(pid uint32) string {
	if pid == 0 {
		return UnknownOwner
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return UnknownOwner
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return UnknownOwner
	}
	return filepath.Base(windows.UTF16ToString(buf[:size]))
}
