package telemetry

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorded struct {
	kind string
	id   string
}

type recorder struct {
	reports []recorded
}

func (r *recorder) ReportBroken(id string, params ...any) {
	r.reports = append(r.reports, recorded{"broken", id})
}

func (r *recorder) ReportWarning(id string, params ...any) {
	r.reports = append(r.reports, recorded{"warning", id})
}

func (r *recorder) ReportDebug(msg string, params ...any) {
	r.reports = append(r.reports, recorded{"debug", msg})
}

func (r *recorder) ReportCount(id string, count int64) {
	r.reports = append(r.reports, recorded{"count", id})
}

func TestScopedAPI(t *testing.T) {
	inner := &recorder{}
	scoped := NewScopedAPI("roster", NewScopedAPI("outer", inner))

	scoped.ReportBroken("extractor.members")
	scoped.ReportWarning("extractor.member", "x")
	scoped.ReportDebug("fetched page")
	scoped.ReportCount("extractor.members", 125)

	require.Equal(t, []recorded{
		{"broken", "outer:roster:extractor.members"},
		{"warning", "outer:roster:extractor.member"},
		{"debug", "outer: roster: fetched page"},
		{"count", "outer:roster:extractor.members"},
	}, inner.reports)
}

func TestEndpointValidate(t *testing.T) {
	testCases := []struct {
		name     string
		endpoint Endpoint
		valid    bool
	}{
		{name: "empty", endpoint: Endpoint{}},
		{name: "grpc", endpoint: Endpoint{Grpc: "http://localhost:4317"}, valid: true},
		{name: "http", endpoint: Endpoint{Http: "http://localhost:4318"}, valid: true},
		{
			name:     "both",
			endpoint: Endpoint{Grpc: "http://localhost:4317", Http: "http://localhost:4318"},
		},
	}

	for _, test := range testCases {
		err := test.endpoint.Validate()
		if test.valid {
			require.NoError(t, err, test.name)
			continue
		}
		require.Error(t, err, test.name)
	}
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test", Config{})
	require.ErrorIs(t, err, ErrNoEndpoint)
	require.False(t, tel.Enabled())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvMissing(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = SetupFromEnv(context.Background(), "test")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
