// Package view holds the helpers available inside HTML templates.
package view

import (
	"bytes"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/logger"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// FuncMap returns the template functions registered on the engine
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"round":    Round,
		"percent":  Percent,
		"date":     FormatDate,
		"markdown": Markdown,
		"year":     func() int { return time.Now().Year() },
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"progressClass": ProgressClass,
	}
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// Percent formats a progress value with one decimal, e.g. "66.7%"
func Percent(v float64) string {
	return strconv.FormatFloat(Round(v, 1), 'f', -1, 64) + "%"
}

// FormatDate renders a date the way the forms expect it
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateFormat)
}

// ProgressClass picks the progress bar style for a percentage
func ProgressClass(v float64) string {
	switch {
	case v >= 100:
		return "bg-success"
	case v >= 70:
		return "bg-info"
	case v >= 30:
		return "bg-warning"
	default:
		return "bg-danger"
	}
}

// Markdown renders user supplied markdown into sanitized HTML
func Markdown(source string) template.HTML {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		logger.Log.Warnw("failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}

	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
