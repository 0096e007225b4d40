package color

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout) {
		colorEnabled = false
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + Reset
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	return Colorize(Bold, text)
}

// Index renders a frame index such as "#3".
func Index(label string) string {
	return CyanText(label)
}

// Address renders a hexadecimal address.
func Address(addr string) string {
	return YellowText(addr)
}

// Anchor renders the address of the walker's own frame record.
func Anchor(addr string) string {
	return GrayText(addr)
}
