package restyutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id string, contents string) {
	m[id] = contents
}

func TestDumpMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-B", "2")
		w.Header().Set("X-A", "1")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	output := memoryOutput{}
	client := resty.New()
	DumpMessages(client, output)

	_, err := client.R().SetHeader("X-Test", "yes").Get(server.URL + "/a")
	require.NoError(t, err)
	_, err = client.R().SetBody("payload").Post(server.URL + "/b")
	require.NoError(t, err)

	require.Len(t, output, 2)

	get := output["001-GET"]
	require.True(t, strings.HasPrefix(get, "> GET "+server.URL+"/a\n"), get)
	require.Contains(t, get, "X-Test: yes\n")
	require.Contains(t, get, "< 418 "+server.URL+"/a\n")
	require.Less(t, strings.Index(get, "X-A: 1"), strings.Index(get, "X-B: 2"))
	require.True(t, strings.HasSuffix(get, "short and stout"))

	post := output["002-POST"]
	require.Contains(t, post, "payload")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("001-GET", "contents")

	written, err := os.ReadFile(filepath.Join(dir, "001-GET.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}

func TestRequestBody(t *testing.T) {
	testCases := []struct {
		name     string
		getBody  func() (io.ReadCloser, error)
		expected string
	}{
		{name: "no GetBody"},
		{
			name:    "nil body",
			getBody: func() (io.ReadCloser, error) { return nil, nil },
		},
		{
			name: "body",
			getBody: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("payload")), nil
			},
			expected: "payload",
		},
	}

	for _, test := range testCases {
		req, err := http.NewRequest(http.MethodGet, "https://az.wikipedia.org/wiki/A", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.GetBody = test.getBody
		require.Equal(t, test.expected, requestBody(req), test.name)
	}
}
