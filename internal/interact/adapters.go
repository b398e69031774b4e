package interact

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// BrowserOpener opens URLs in the system's default browser.
type BrowserOpener struct{}

func (BrowserOpener) OpenURL(u string) error {
	return browser.OpenURL(u)
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

var (
	_ Opener    = BrowserOpener{}
	_ Clipboard = SystemClipboard{}
)
