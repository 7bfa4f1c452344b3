// Package wikidata annotates the links of a Wikipedia page with the Wikidata
// item of the article they point to.
package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"mejlis-roster/internal/assert"
	"mejlis-roster/lib/htmlutil"
	"mejlis-roster/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("roster.internal.wikidata")

// AttrName is the attribute Decorate sets on resolved links.
const AttrName = "wikidata"

const defaultBatchSize = 50

const (
	report_decorator_decorate = "decorator.decorate"
	report_decorator_query    = "decorator.query"
)

var ErrApi = errors.New("mediawiki api error")

// Attr reads the identifier Decorate attached to a link.
type Attr struct{}

func (Attr) ID(link *goquery.Selection) (string, bool) {
	id, ok := link.Attr(AttrName)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type Decorator struct {
	client    *resty.Client
	tel       telemetry.API
	batchSize int
}

func NewDecorator(client *resty.Client, tel telemetry.API) Decorator {
	assert.NotNil("client", client)
	assert.NotNil("tel", tel)
	return Decorator{
		client:    client,
		tel:       telemetry.NewScopedAPI("wikidata", tel),
		batchSize: defaultBatchSize,
	}
}

// ApiEndpoint returns the api.php of the wiki hosting pageUrl.
func ApiEndpoint(pageUrl *url.URL) string {
	endpoint := url.URL{
		Scheme: pageUrl.Scheme,
		Host:   pageUrl.Host,
		Path:   "/w/api.php",
	}
	return endpoint.String()
}

// articleTitle returns the title of the article a link points to, links to
// other hosts or outside of /wiki/ are not articles of this wiki.
func articleTitle(page *url.URL, link *url.URL) (string, bool) {
	if link.Host != "" && link.Host != page.Host {
		return "", false
	}
	if link.Opaque != "" || link.RawQuery != "" {
		return "", false
	}
	title, ok := strings.CutPrefix(link.Path, "/wiki/")
	if !ok || title == "" {
		return "", false
	}
	return strings.ReplaceAll(title, "_", " "), true
}

// Decorate sets the wikidata attribute on every link of doc that points to
// an article of the same wiki which has a Wikidata item. Red links are left
// untouched.
func (d Decorator) Decorate(ctx context.Context, doc *goquery.Document, pageUrl string) error {
	ctx, span := tracer.Start(ctx, "Decorate")
	defer span.End()

	page, err := url.Parse(pageUrl)
	if err != nil {
		return err
	}

	links := doc.Find("a[href]").Not("a.new")
	anchors := htmlutil.GetAnchors(ctx, links)

	byTitle := map[string][]htmlutil.Anchor{}
	for _, a := range anchors {
		title, ok := articleTitle(page, a.Url)
		if !ok {
			continue
		}
		byTitle[title] = append(byTitle[title], a)
	}

	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	span.SetAttributes(attribute.Int("titles", len(titles)))

	endpoint := ApiEndpoint(page)
	resolved := 0
	for start := 0; start < len(titles); start += d.batchSize {
		end := min(start+d.batchSize, len(titles))

		items, err := d.query(ctx, endpoint, titles[start:end])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "query failed")
			d.tel.ReportBroken(report_decorator_decorate, err, pageUrl)
			return err
		}

		for title, item := range items {
			for _, a := range byTitle[title] {
				htmlutil.SetAttr(a.Node, AttrName, item)
			}
			resolved++
		}
	}

	d.tel.ReportDebug("resolved titles", resolved, len(titles))
	return nil
}

type apiResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Query struct {
		Normalized []fromTo `json:"normalized"`
		Redirects  []fromTo `json:"redirects"`
		Pages      []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
			PageProps struct {
				WikibaseItem string `json:"wikibase_item"`
			} `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

type fromTo struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// query returns the wikidata item of each requested title that has one,
// keyed by the title as requested.
func (d Decorator) query(ctx context.Context, endpoint string, titles []string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "query")
	defer span.End()
	span.SetAttributes(attribute.Int("batch", len(titles)))

	res, err := d.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":        "query",
			"prop":          "pageprops",
			"ppprop":        "wikibase_item",
			"redirects":     "1",
			"format":        "json",
			"formatversion": "2",
			"titles":        strings.Join(titles, "|"),
		}).
		Get(endpoint)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrApi, res.Status())
	}

	var parsed apiResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrApi, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrApi, parsed.Error.Code, parsed.Error.Info)
	}

	normalized := map[string]string{}
	for _, n := range parsed.Query.Normalized {
		normalized[n.From] = n.To
	}
	redirects := map[string]string{}
	for _, r := range parsed.Query.Redirects {
		redirects[r.From] = r.To
	}
	pages := map[string]string{}
	for _, p := range parsed.Query.Pages {
		if p.Missing || p.PageProps.WikibaseItem == "" {
			continue
		}
		pages[p.Title] = p.PageProps.WikibaseItem
	}

	items := make(map[string]string, len(titles))
	for _, title := range titles {
		target := title
		if to, ok := normalized[target]; ok {
			target = to
		}
		if to, ok := redirects[target]; ok {
			target = to
		}
		item, ok := pages[target]
		if !ok {
			d.tel.ReportDebug("title without wikidata item", title)
			continue
		}
		items[title] = item
	}
	return items, nil
}
