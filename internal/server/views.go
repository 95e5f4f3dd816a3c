package server

import (
	"shopdash/internal/domain"

	html "github.com/gofiber/template/html/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewViews loads the page templates from dir and registers the number
// helpers they use.
func NewViews(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("money", Money)
	engine.AddFunc("number", Number)
	return engine
}

// Money formats an amount with English digit grouping, e.g. $1,234.50.
func Money(v domain.Money) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("$%.2f", v.Round(2).InexactFloat64())
}

// Number formats a count with English digit grouping.
func Number(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
