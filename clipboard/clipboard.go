// Package clipboard is a thin wrapper so callers don't deal with the
// underlying library's format constants.
package clipboard

import (
	"golang.design/x/clipboard"
)

func Init() error {
	return clipboard.Init()
}

// Write places text on the system clipboard.
func Write(text string) error {
	// The library's Write returns a change channel, not an error.
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
