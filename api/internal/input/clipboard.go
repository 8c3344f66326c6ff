package input

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// ReadClipboard is swapped in tests.
var ReadClipboard = clipboard.ReadAll

// PasteClipboard reads the system clipboard and routes it through Paste.
func (c *Capture) PasteClipboard() (image bool, err error) {
	s, err := ReadClipboard()
	if err != nil {
		return false, fmt.Errorf("clipboard: %w", err)
	}
	return c.Paste(s), nil
}
