package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseTerm reads the term from the <select id="term"> on the search page.
// The selected option wins, then the first one.
func parseTerm(doc *goquery.Document) string {
	options := doc.Find("select#term option")
	if selected := options.Filter("[selected]"); selected.Length() > 0 {
		return optionValue(selected.First())
	}
	if options.Length() > 0 {
		return optionValue(options.First())
	}
	return ""
}

func optionValue(sel *goquery.Selection) string {
	if val, ok := sel.Attr("value"); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(sel.Text())
}
