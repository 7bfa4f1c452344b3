package roster

import (
	"fmt"
	"strings"

	"mejlis-roster/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// membersTables returns, for every h2 containing HeadingMarker, the first
// table that follows it. Headings sharing a table yield it once, tables stay
// in document order.
func membersTables(doc *goquery.Document) (*goquery.Selection, error) {
	headings := doc.Find("h2").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.Contains(h.Text(), HeadingMarker)
	})
	if headings.Length() == 0 {
		return nil, fmt.Errorf("%w: no heading containing %q", ErrTableNotFound, HeadingMarker)
	}

	var tables []*html.Node
	for _, heading := range headings.Nodes {
		table := htmlutil.FollowingFirst(heading, atom.Table)
		if table == nil {
			continue
		}
		// a later heading can only lead to the same table or a later one.
		if len(tables) > 0 && tables[len(tables)-1] == table {
			continue
		}
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no table after heading %q", ErrTableNotFound, headings.First().Text())
	}
	return doc.FindNodes(tables...), nil
}

// memberRows selects the rows with a td holding a direct link, this skips
// header and separator rows.
func memberRows(tables *goquery.Selection) *goquery.Selection {
	return tables.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.ChildrenFiltered("td").ChildrenFiltered("a").Length() > 0
	})
}

// Members extracts every member of the tables following the deputies
// headings, in document order.
func (e Extractor) Members(doc *goquery.Document) ([]Member, error) {
	tables, err := membersTables(doc)
	if err != nil {
		e.tel.ReportBroken(report_extractor_members, err)
		return nil, err
	}

	rows := memberRows(tables)
	if rows.Length() == 0 {
		e.tel.ReportBroken(report_extractor_members, ErrNoMembers)
		return nil, ErrNoMembers
	}

	members := make([]Member, 0, rows.Length())
	for i := range rows.Nodes {
		member, err := e.Member(rows.Eq(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		members = append(members, member)
	}

	e.tel.ReportCount(report_extractor_members, int64(len(members)))
	return members, nil
}
