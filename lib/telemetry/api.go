package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("roster.lib.telemetry")
var countGauge, _ = meter.Int64Gauge("report_count")

// API is what components report through instead of calling slog directly,
// so tests can assert on what was reported.
type API interface {
	// ReportBroken reports a failure someone should look at.
	//
	// `id` names the failing operation as `<component>.<operation>` in
	// lowercase, details go in params.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that did not stop the run,
	// ex. a table row whose links carry no wikidata item.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only shown in verbose mode.
	ReportDebug(msg string, params ...any)

	// ReportCount reports how many of something were produced.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (and debug message) with a namespace, usually
// the reporting package.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + ":" + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.namespace+": "+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

// SlogAPI reports to the default slog logger, counts are also recorded on
// the "report_count" gauge.
type SlogAPI struct{}

// attrs turns params into slog key/value pairs, errors are keyed "err" and
// everything else by position.
func (SlogAPI) attrs(prefix []any, params []any) []any {
	out := prefix
	for i, p := range params {
		if err, ok := p.(error); ok {
			out = append(out, slog.String("err", err.Error()))
			continue
		}
		out = append(out, slog.Any(fmt.Sprintf("params.%d", i), p))
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", s.attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", s.attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	slog.Debug(message, s.attrs(nil, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
	countGauge.Record(
		context.Background(), count,
		otelmetric.WithAttributes(attribute.String("id", id)),
	)
}
