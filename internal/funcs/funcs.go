package funcs

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateFuncs is a plain map so it can be handed to both text/template and html/template
var TemplateFuncs = map[string]any{
	// Time functions
	"now":            time.Now,
	"formatTime":     formatTime,
	"approxDuration": approxDuration,

	// String functions
	"uppercase": strings.ToUpper,
	"lowercase": strings.ToLower,
	"levelName": levelName,
	"join":      strings.Join,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

// levelName turns a stored tier such as PREMIUM into "Premium" for people to read
func levelName(level any) string {
	return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(fmt.Sprint(level), "_", " ")))
}

func approxDuration(d time.Duration) string {
	const (
		day  = 24 * time.Hour
		year = 365 * day
	)

	switch {
	case d >= year:
		return pluralize(int(d/year), "year")
	case d >= day:
		return pluralize(int(d/day), "day")
	case d >= time.Hour:
		return pluralize(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return pluralize(int(d/time.Minute), "minute")
	default:
		return pluralize(int(d/time.Second), "second")
	}
}

func pluralize(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}
