// Package constituency resolves the numeric code of an electoral
// constituency to its Wikidata item, using a lookup file produced by a
// SPARQL query (`wd sparql constituencies.sparql > constituencies.json`).
package constituency

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"mejlis-roster/internal/assert"
	"mejlis-roster/lib/telemetry"
	"mejlis-roster/lib/textutil"

	"github.com/antzucaro/matchr"
)

const DefaultPath = "constituencies.json"

const (
	report_list_load = "list.load"
)

var (
	ErrNotFound  = errors.New("constituency not found")
	ErrMalformed = errors.New("malformed constituency list")
)

type item struct {
	Label *string `json:"label"`
	Value *string `json:"value"`
}

type row struct {
	Item *item `json:"item"`
}

type entry struct {
	label string
	value string
}

// List is the lookup table from constituency code to identifier. The file
// is read and the mapping built on first use, at most once each.
type List struct {
	path string
	tel  telemetry.API

	contents []byte
	mapping  map[string]entry
}

func NewList(path string, tel telemetry.API) *List {
	assert.NotEmpty("path", path)
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	return &List{
		path: path,
		tel:  telemetry.NewScopedAPI("constituency", tel),
	}
}

func (l *List) read() ([]byte, error) {
	if l.contents != nil {
		return l.contents, nil
	}
	contents, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	l.contents = contents
	return contents, nil
}

func (l *List) load() (map[string]entry, error) {
	if l.mapping != nil {
		return l.mapping, nil
	}

	contents, err := l.read()
	if err != nil {
		return nil, err
	}

	var rows []row
	err = json.Unmarshal(contents, &rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}

	mapping := make(map[string]entry, len(rows))
	for i, r := range rows {
		if r.Item == nil || r.Item.Label == nil || r.Item.Value == nil {
			return nil, fmt.Errorf("%w: %s: element %d needs item.label and item.value", ErrMalformed, l.path, i)
		}
		code, ok := textutil.FirstNumber(*r.Item.Label)
		if !ok {
			l.tel.ReportWarning(report_list_load, fmt.Errorf("label without code"), *r.Item.Label)
			continue
		}
		mapping[code] = entry{label: *r.Item.Label, value: *r.Item.Value}
	}

	l.mapping = mapping
	return mapping, nil
}

// Find returns the identifier paired with code. An unknown code is an error
// wrapping ErrNotFound.
func (l *List) Find(code string) (string, error) {
	mapping, err := l.load()
	if err != nil {
		return "", err
	}
	e, ok := mapping[code]
	if !ok {
		closest := closestLabel(code, mapping)
		if closest == "" {
			return "", fmt.Errorf("%w: %q", ErrNotFound, code)
		}
		return "", fmt.Errorf("%w: %q (closest known: %q)", ErrNotFound, code, closest)
	}
	return e.value, nil
}

func (l *List) Len() (int, error) {
	mapping, err := l.load()
	if err != nil {
		return 0, err
	}
	return len(mapping), nil
}

func closestLabel(code string, mapping map[string]entry) string {
	best := ""
	bestScore := 0.0
	target := textutil.NormalizeName(code)
	for known, e := range mapping {
		score := matchr.JaroWinkler(target, textutil.NormalizeName(known), false)
		if score > bestScore || (score == bestScore && e.label < best) {
			best = e.label
			bestScore = score
		}
	}
	return best
}
