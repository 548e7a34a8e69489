package display

import (
	"fmt"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultWrapWidth is the width used when wrapping skill descriptions
const DefaultWrapWidth = 72

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber renders n with thousands separators, e.g. 1,234,567
func FormatNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatPercent renders a percentage with one decimal place
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDuration renders an encounter duration as m:ss
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Wrap word-wraps text to width columns. A width of zero or less uses DefaultWrapWidth.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	return wordwrap.String(text, width)
}
