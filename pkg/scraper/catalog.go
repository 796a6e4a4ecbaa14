package scraper

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/source"
)

// CatalogScraper reads a paginated catalog course listing. Each course is an
// <h3>CODE - Title</h3> followed by free text and <strong>Label:</strong>
// value pairs, up to the next <h3>.
type CatalogScraper struct {
	client   *Client
	school   course.School
	url      string // "%d" is replaced by the page number
	maxPages int
}

func NewCatalogScraper(client *Client, school course.School, url string, maxPages int) *CatalogScraper {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &CatalogScraper{client: client, school: school, url: url, maxPages: maxPages}
}

// NewCatalogs builds the school dispatch table from a map of school codes to
// listing URLs. Unknown codes map to NA, which is used for shared catalogs.
func NewCatalogs(client *Client, urls map[string]string, maxPages int) source.Catalogs {
	catalogs := make(source.Catalogs, len(urls))
	for code, url := range urls {
		school := course.SchoolFromCode(code)
		catalogs[school] = NewCatalogScraper(client, school, url, maxPages)
	}
	return catalogs
}

// FetchCatalog walks the listing until a page yields nothing
func (s *CatalogScraper) FetchCatalog(ctx context.Context) (source.CatalogBatch, error) {
	batch := source.CatalogBatch{School: s.school}

	for page := 1; page <= s.maxPages; page++ {
		url := strings.ReplaceAll(s.url, "%d", strconv.Itoa(page))

		resp, err := s.client.Get(ctx, url)
		if err != nil {
			return source.CatalogBatch{}, err
		}
		records, skipped, err := ParseCatalogPage(resp.Body, s.school)
		resp.Body.Close()
		if err != nil {
			return source.CatalogBatch{}, err
		}

		if len(records) == 0 && skipped == 0 {
			break
		}
		batch.Records = append(batch.Records, records...)
		batch.Skipped += skipped

		if !strings.Contains(s.url, "%d") {
			break
		}
	}

	return batch, nil
}

// ParseCatalogPage extracts the courses on one listing page. Entries that only
// point at another college's catalog are ignored; entries with an unreadable
// code are counted as skipped.
func ParseCatalogPage(r io.Reader, school course.School) ([]course.CatalogRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, err
	}

	var records []course.CatalogRecord
	skipped := 0

	doc.Find("h3").Each(func(i int, h *goquery.Selection) {
		code, title, ok := strings.Cut(collapse(h.Text()), " - ")
		if !ok {
			return // section headings
		}

		id, err := course.Normalize(code)
		if err != nil {
			skipped++
			return
		}
		id.Section = ""

		fields := labelledText(h.Nodes[0])
		desc := fields[""]
		if strings.HasPrefix(desc, "See ") && strings.Contains(strings.ToLower(desc), "catalog") {
			return
		}

		rec := course.CatalogRecord{
			Identifier:  id,
			Title:       titleCase(strings.TrimSpace(title)),
			School:      school,
			Description: desc,
		}
		for label, value := range fields {
			switch {
			case strings.HasPrefix(label, "credit"):
				rec.Credits = parseCredits(value)
			case strings.HasPrefix(label, "instructor"):
				rec.Instructors = splitNames(value)
			case strings.HasPrefix(label, "offered"):
				rec.Offered = value
			case strings.HasPrefix(label, "prerequisite"):
				rec.Prerequisites = value
			case strings.HasPrefix(label, "corequisite"):
				rec.Corequisites = value
			case strings.HasPrefix(label, "fee"):
				rec.Fee = parseCredits(strings.TrimPrefix(value, "$")) / 100
			}
		}

		records = append(records, rec)
	})

	return records, skipped, nil
}

// labelledText walks the siblings after an <h3> until the next one. Text
// before the first <strong> is keyed by "", text after a <strong> by its
// lower-cased label without the trailing colon.
func labelledText(h3 *html.Node) map[string]string {
	parts := map[string]*strings.Builder{"": {}}
	label := ""

	for n := h3.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "h3" {
			break
		}
		if n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b") {
			label = strings.ToLower(strings.TrimSuffix(collapse(nodeText(n)), ":"))
			if _, ok := parts[label]; !ok {
				parts[label] = &strings.Builder{}
			}
			continue
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			// a line break ends a labelled value
			if label != "" && parts[label].Len() > 0 {
				label = ""
			}
			parts[label].WriteString(" ")
			continue
		}
		parts[label].WriteString(nodeText(n))
		parts[label].WriteString(" ")
	}

	out := make(map[string]string, len(parts))
	for k, b := range parts {
		out[k] = collapse(b.String())
	}
	return out
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	return goquery.NewDocumentFromNode(n).Text()
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(strings.ReplaceAll(s, " and ", ","), ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// titleCase fixes catalogs that shout their titles
func titleCase(s string) string {
	if s != strings.ToUpper(s) {
		return s
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}
