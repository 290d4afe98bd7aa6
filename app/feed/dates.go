package feed

import (
	"strings"
	"time"
)

const storyDateLayout = "Jan 2, 2006"

type DateNormalizer struct {
	loc *time.Location
	now func() time.Time
}

func NewDateNormalizer(loc *time.Location, now func() time.Time) *DateNormalizer {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{loc: loc, now: now}
}

// Run resolves a story date such as "Yesterday" or "Mar 4, 2024".
// Text it cannot parse resolves to the current time together with a
// *DateParseError; the timestamp is always usable.
func (d *DateNormalizer) Run(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	now := d.now().In(d.loc)

	if strings.EqualFold(text, "yesterday") {
		return now.AddDate(0, 0, -1), nil
	}

	parsed, err := time.ParseInLocation(storyDateLayout, text, d.loc)
	if err != nil {
		return now, &DateParseError{Text: text, Err: err}
	}

	return parsed, nil
}
