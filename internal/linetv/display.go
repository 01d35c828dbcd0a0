package linetv

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	starFull  = "★"
	starHalf  = "⯨"
	starEmpty = "☆"
	maxStars  = 5
)

var printer = message.NewPrinter(language.English)

// DateText renders CreatedAt as a long date in the local zone.
func (d Drama) DateText() string {
	return d.DateTextIn(time.Local)
}

// DateTextIn renders CreatedAt as a long date, e.g. "November 23, 2017".
func (d Drama) DateTextIn(loc *time.Location) string {
	if d.CreatedAt.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return d.CreatedAt.In(loc).Format("January 2, 2006")
}

// ViewsText renders TotalViews with digit grouping.
func (d Drama) ViewsText() string {
	return printer.Sprintf("%d", d.TotalViews)
}

// RatingText renders the rating as five star glyphs followed by the value.
func (d Drama) RatingText() string {
	return Stars(d.Rating) + " " + fmt.Sprintf("%.1f", d.Rating)
}

// Stars renders a rating as five glyphs. The slot at index i is full when
// rating >= i+1, half when rating > i, and empty otherwise. The rating itself
// is not clamped; values outside 0 to 5 simply saturate.
func Stars(rating float64) string {
	var b strings.Builder
	for i := 0; i < maxStars; i++ {
		switch {
		case rating >= float64(i+1):
			b.WriteString(starFull)
		case rating > float64(i):
			b.WriteString(starHalf)
		default:
			b.WriteString(starEmpty)
		}
	}
	return b.String()
}
