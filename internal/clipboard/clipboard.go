// Package clipboard implements the copy side effect behind the Results
// Viewport's `y` action and the popup's ConfirmYank payload. It tries the
// OS clipboard first and falls back to an OSC52 terminal escape sequence —
// the only mechanism that works over SSH or inside tmux without clipboard
// forwarding configured.
package clipboard

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Write copies text to the clipboard via the OS-native mechanism
// atotto/clipboard wraps (pbcopy/xclip/xsel/clip.exe); on failure (no
// native clipboard utility available — the common case on a bare SSH
// session) it falls back to emitting an OSC52 escape sequence to w, which
// a modern terminal emulator intercepts and copies itself.
func Write(w io.Writer, text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	seq := osc52.New(text)
	_, err := seq.WriteTo(w)
	return err
}
