package note

import (
	"time"

	"github.com/dustin/go-humanize"
)

// MsgUnknownDate is shown for missing timestamps.
const MsgUnknownDate = "Unknown date"

// LayoutRelative selects humanized dates ("3 hours ago").
const LayoutRelative = "relative"

// DefaultDateLayout is used when no layout is configured.
const DefaultDateLayout = "Jan 2, 2006 15:04"

// FormatDate renders t with layout, or relative to now when layout is
// LayoutRelative.
func FormatDate(t time.Time, layout string, now time.Time) string {
	if t.IsZero() {
		return MsgUnknownDate
	}
	switch layout {
	case LayoutRelative:
		return humanize.RelTime(t, now, "ago", "from now")
	case "":
		layout = DefaultDateLayout
	}
	return t.Local().Format(layout)
}
