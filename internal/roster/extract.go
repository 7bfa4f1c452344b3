package roster

import (
	"fmt"

	"mejlis-roster/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	columnName  = 0
	columnParty = 3
	columnArea  = 4
)

func (e Extractor) firstID(cell *goquery.Selection) string {
	id := ""
	cell.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		found, ok := e.ids.ID(a)
		if ok {
			id = found
			return false
		}
		return true
	})
	return id
}

// Member decodes one row of the members table.
func (e Extractor) Member(row *goquery.Selection) (Member, error) {
	tds := row.Find("td")

	nameCell := tds.Eq(columnName)
	partyCell := tds.Eq(columnParty)
	areaCell := tds.Eq(columnArea)

	name := ""
	firstLink := nameCell.Find("a").First()
	if firstLink.Length() > 0 {
		name = textutil.Tidy(firstLink.Text())
	}

	areaLabel, ok := textutil.FirstNumber(areaCell.Text())
	if !ok {
		return Member{}, fmt.Errorf(
			"%w: %q (%q)",
			ErrNoAreaCode, textutil.Tidy(areaCell.Text()), name,
		)
	}
	area, err := e.areas.Find(areaLabel)
	if err != nil {
		return Member{}, fmt.Errorf("resolve constituency of %q: %w", name, err)
	}

	partyLabel := textutil.Tidy(partyCell.Text())
	party := IndependentID
	if partyLabel != IndependentLabel {
		party = e.firstID(partyCell)
	}

	member := Member{
		ID:         e.firstID(nameCell),
		Name:       name,
		AreaLabel:  areaLabel,
		Area:       area,
		PartyLabel: partyLabel,
		Party:      party,
	}

	if member.ID == "" {
		e.tel.ReportWarning(report_extractor_member, "member without id", member.String())
	}
	if member.Party == "" && member.PartyLabel != "" {
		e.tel.ReportWarning(report_extractor_member, "party without id", member.String())
	}

	return member, nil
}
