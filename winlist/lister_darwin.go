//go:build darwin

package winlist

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <string.h>

typedef struct {
	uint32_t id;
	int32_t  pid;
	int32_t  layer;
	int32_t  x, y, w, h;
	double   alpha;
	int32_t  on_screen;
	char     owner[128];
	char     title[256];
} capprobe_window_info;

static void copy_cf_string(CFDictionaryRef dict, CFStringRef key, char *dst, size_t cap) {
	dst[0] = '\0';
	CFStringRef s = CFDictionaryGetValue(dict, key);
	if (s != NULL) {
		CFStringGetCString(s, dst, cap, kCFStringEncodingUTF8);
	}
}

static int64_t cf_number(CFDictionaryRef dict, CFStringRef key, int64_t fallback) {
	CFNumberRef n = CFDictionaryGetValue(dict, key);
	int64_t v = fallback;
	if (n != NULL) CFNumberGetValue(n, kCFNumberSInt64Type, &v);
	return v;
}

static double cf_double(CFDictionaryRef dict, CFStringRef key, double fallback) {
	CFNumberRef n = CFDictionaryGetValue(dict, key);
	double v = fallback;
	if (n != NULL) CFNumberGetValue(n, kCFNumberDoubleType, &v);
	return v;
}

// capprobe_list_windows fills out with up to cap records from the window
// server's table and returns the total native window count.
static int capprobe_list_windows(capprobe_window_info *out, int cap, int *filled) {
	CFArrayRef list = CGWindowListCopyWindowInfo(kCGWindowListOptionAll, kCGNullWindowID);
	if (list == NULL) {
		*filled = 0;
		return 0;
	}
	CFIndex count = CFArrayGetCount(list);
	int n = 0;
	for (CFIndex i = 0; i < count && n < cap; i++) {
		CFDictionaryRef win = CFArrayGetValueAtIndex(list, i);
		capprobe_window_info *w = &out[n];
		memset(w, 0, sizeof(*w));
		w->id = (uint32_t)cf_number(win, kCGWindowNumber, 0);
		w->pid = (int32_t)cf_number(win, kCGWindowOwnerPID, 0);
		w->layer = (int32_t)cf_number(win, kCGWindowLayer, 0);
		w->alpha = cf_double(win, kCGWindowAlpha, 1.0);
		w->on_screen = cf_number(win, kCGWindowIsOnscreen, 1) != 0;
		CFDictionaryRef bounds = CFDictionaryGetValue(win, kCGWindowBounds);
		if (bounds != NULL) {
			CGRect rect;
			if (CGRectMakeWithDictionaryRepresentation(bounds, &rect)) {
				w->x = (int32_t)rect.origin.x;
				w->y = (int32_t)rect.origin.y;
				w->w = (int32_t)rect.size.width;
				w->h = (int32_t)rect.size.height;
			}
		}
		copy_cf_string(win, kCGWindowOwnerName, w->owner, sizeof(w->owner));
		copy_cf_string(win, kCGWindowName, w->title, sizeof(w->title));
		n++;
	}
	CFRelease(list);
	*filled = n;
	return (int)count;
}
*/
import "C"

// maxWindows bounds the record buffer handed to the C side. The window
// server table on a busy session runs to a few hundred entries.
const maxWindows = 4096

// cgBackend reads the CoreGraphics window server table.
type cgBackend struct {
	lastTotal int
}

func newBackend() (backend, error) {
	return &cgBackend{}, nil
}

func (b *cgBackend) close() {}

func (b *cgBackend) total() int { return b.lastTotal }

func (b *cgBackend) nativeWindows() ([]NativeWindowRecord, error) {
	buf := make([]C.capprobe_window_info, maxWindows)
	var filled C.int
	total := C.capprobe_list_windows(&buf[0], C.int(len(buf)), &filled)
	b.lastTotal = int(total)

	records := make([]NativeWindowRecord, 0, int(filled))
	for i := 0; i < int(filled); i++ {
		w := &buf[i]
		owner := C.GoString(&w.owner[0])
		if owner == "" {
			owner = UnknownOwner
		}
		records = append(records, NativeWindowRecord{
			ID:       uint64(w.id),
			PID:      int(w.pid),
			Layer:    int(w.layer),
			X:        int(w.x),
			Y:        int(w.y),
			Width:    int(w.w),
			Height:   int(w.h),
			Alpha:    float64(w.alpha),
			OnScreen: w.on_screen != 0,
			Owner:    owner,
			Title:    C.GoString(&w.title[0]),
		})
	}
	return records, nil
}
