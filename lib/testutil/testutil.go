package testutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// Report is a single call recorded by Recorder.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Recorder is a telemetry.API that keeps every report so tests can assert
// on them.
type Recorder struct {
	mu      sync.Mutex
	Reports []Report
}

func (r *Recorder) record(kind, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports = append(r.Reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Ids returns the ids of all reports of the given kind, in order.
func (r *Recorder) Ids(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, report := range r.Reports {
		if report.Kind == kind {
			ids = append(ids, report.Id)
		}
	}
	return ids
}

func ParseHTML(t testing.TB, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}
