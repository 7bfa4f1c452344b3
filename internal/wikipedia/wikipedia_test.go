package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mejlis-roster/lib/testutil"

	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mu       sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id, contents string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messages == nil {
		m.messages = map[string]string{}
	}
	m.messages[id] = contents
}

func TestDocument(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("user-agent")
		fmt.Fprint(w, `<html><body><h2>Deputatlar</h2></body></html>`)
	}))
	defer server.Close()

	rec := &testutil.Recorder{}
	dump := &memoryOutput{}
	client := NewClient(ClientOptions{Telemetry: rec, DumpOutput: dump})

	doc, err := client.Document(context.Background(), server.URL+"/wiki/Page")
	require.NoError(t, err)
	require.Equal(t, "Deputatlar", doc.Find("h2").Text())
	require.Equal(t, UserAgent, userAgent)

	require.Len(t, dump.messages, 1)
	message, ok := dump.messages["001-GET"]
	require.True(t, ok)
	require.True(t, strings.HasPrefix(message, "> GET "+server.URL+"/wiki/Page\n"))
	require.Contains(t, message, "<h2>Deputatlar</h2>")

	require.Equal(t, []string{
		"wikipedia: resty.request",
		"wikipedia: resty.response",
	}, rec.Ids("debug"))
}

func TestDocumentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	rec := &testutil.Recorder{}
	client := NewClient(ClientOptions{Telemetry: rec})

	_, err := client.Document(context.Background(), server.URL+"/wiki/Missing")
	require.ErrorIs(t, err, ErrStatus)
	require.Contains(t, err.Error(), "404")
	require.Equal(t, []string{"wikipedia:client.document"}, rec.Ids("broken"))
}

func TestDocumentTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(ClientOptions{Telemetry: &testutil.Recorder{}})
	_, err := client.Document(context.Background(), url+"/wiki/Page")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrStatus)
}
