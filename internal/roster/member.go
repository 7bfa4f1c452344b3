// Package roster extracts the members of the Milli Majlis from the decorated
// Wikipedia article and renders them as tabular text.
package roster

import (
	"errors"
	"strings"

	"mejlis-roster/internal/assert"
	"mejlis-roster/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
)

const (
	// HeadingMarker is the word ("deputies'") that identifies the heading
	// directly above the members table.
	HeadingMarker = "deputatlarının"

	// IndependentLabel is the party cell text of members without a party.
	IndependentLabel = "Bitərəf"
	// IndependentID is the Wikidata item for "independent politician".
	IndependentID = "Q327591"
)

const (
	report_extractor_member  = "extractor.member"
	report_extractor_members = "extractor.members"
)

var (
	ErrNoAreaCode    = errors.New("no constituency code in row")
	ErrTableNotFound = errors.New("members table not found")
	ErrNoMembers     = errors.New("members table has no member rows")
)

var Header = []string{"id", "name", "areaLabel", "area", "partyLabel", "party"}

// Member is one row of the members table. It is built once by the
// Extractor and never modified afterwards.
type Member struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AreaLabel  string `json:"areaLabel"`
	Area       string `json:"area"`
	PartyLabel string `json:"partyLabel"`
	Party      string `json:"party"`
}

// Fields returns the member's values in Header order.
func (m Member) Fields() []string {
	return []string{m.ID, m.Name, m.AreaLabel, m.Area, m.PartyLabel, m.Party}
}

func (m Member) String() string {
	return strings.Join(m.Fields(), ", ")
}

// AreaResolver maps a constituency code to its identifier.
type AreaResolver interface {
	Find(code string) (string, error)
}

// IDResolver returns the external identifier a decorator attached to a
// link, if any.
type IDResolver interface {
	ID(link *goquery.Selection) (string, bool)
}

type Extractor struct {
	areas AreaResolver
	ids   IDResolver
	tel   telemetry.API
}

func NewExtractor(areas AreaResolver, ids IDResolver, tel telemetry.API) Extractor {
	assert.NotNil("areas", areas)
	assert.NotNil("ids", ids)
	assert.NotNil("tel", tel)

	return Extractor{
		areas: areas,
		ids:   ids,
		tel:   telemetry.NewScopedAPI("roster", tel),
	}
}
