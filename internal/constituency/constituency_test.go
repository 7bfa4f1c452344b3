package constituency

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"mejlis-roster/lib/testutil"

	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), DefaultPath)
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFind(t *testing.T) {
	path := writeList(t, `[{"item":{"label":"Nəsimi (18)","value":"Q100"}}]`)
	list := NewList(path, &testutil.Recorder{})

	value, err := list.Find("18")
	require.NoError(t, err)
	require.Equal(t, "Q100", value)

	_, err = list.Find("99")
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), `"99"`)
}

func TestFindExactMatchOnly(t *testing.T) {
	path := writeList(t, `[
		{"item":{"label":"Nəsimi seçki dairəsi (№18)","value":"Q18"}},
		{"item":{"label":"Binəqədi birinci seçki dairəsi (№7)","value":"Q7"}}
	]`)
	list := NewList(path, &testutil.Recorder{})

	testCases := []struct {
		code     string
		expected string
		found    bool
	}{
		{code: "18", expected: "Q18", found: true},
		{code: "7", expected: "Q7", found: true},
		{code: "07"},
		{code: " 7"},
		{code: "1"},
		{code: ""},
	}

	for _, test := range testCases {
		value, err := list.Find(test.code)
		if !test.found {
			require.ErrorIs(t, err, ErrNotFound, "code %q", test.code)
			continue
		}
		require.NoError(t, err, "code %q", test.code)
		require.Equal(t, test.expected, value, "code %q", test.code)
	}
}

func TestFindLastDuplicateWins(t *testing.T) {
	path := writeList(t, `[
		{"item":{"label":"first (5)","value":"Q1"}},
		{"item":{"label":"second (5)","value":"Q2"}}
	]`)
	list := NewList(path, &testutil.Recorder{})

	value, err := list.Find("5")
	require.NoError(t, err)
	require.Equal(t, "Q2", value)

	n, err := list.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestFindFirstDigitRun(t *testing.T) {
	path := writeList(t, `[{"item":{"label":"dairə 12, köhnə 34","value":"Q12"}}]`)
	list := NewList(path, &testutil.Recorder{})

	value, err := list.Find("12")
	require.NoError(t, err)
	require.Equal(t, "Q12", value)

	_, err = list.Find("34")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCodeIsFirstDigitRunOfLabel(t *testing.T) {
	path := writeList(t, `[{"item":{"label":"Q1 (18)","value":"Q100"}}]`)
	list := NewList(path, &testutil.Recorder{})

	value, err := list.Find("1")
	require.NoError(t, err)
	require.Equal(t, "Q100", value)

	_, err = list.Find("18")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLabelWithoutCode(t *testing.T) {
	path := writeList(t, `[
		{"item":{"label":"no code","value":"Q0"}},
		{"item":{"label":"code (3)","value":"Q3"}}
	]`)
	rec := &testutil.Recorder{}
	list := NewList(path, rec)

	n, err := list.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{"constituency:list.load"}, rec.Ids("warning"))
}

func TestLoadedOnce(t *testing.T) {
	path := writeList(t, `[{"item":{"label":"Nəsimi (18)","value":"Q100"}}]`)
	list := NewList(path, &testutil.Recorder{})

	_, err := list.Find("18")
	require.NoError(t, err)

	err = os.Remove(path)
	if err != nil {
		t.Fatal(err)
	}

	value, err := list.Find("18")
	require.NoError(t, err)
	require.Equal(t, "Q100", value)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name      string
		contents  string
		malformed bool
	}{
		{name: "invalid json", contents: `[{"item":`},
		{name: "not an array", contents: `{"item":{}}`},
		{name: "missing item", contents: `[{}]`, malformed: true},
		{name: "missing label", contents: `[{"item":{"value":"Q1"}}]`, malformed: true},
		{name: "missing value", contents: `[{"item":{"label":"a (1)"}}]`, malformed: true},
	}

	for _, test := range testCases {
		list := NewList(writeList(t, test.contents), &testutil.Recorder{})
		_, err := list.Find("1")
		require.Error(t, err, test.name)
		require.NotErrorIs(t, err, ErrNotFound, test.name)
		if test.malformed {
			require.ErrorIs(t, err, ErrMalformed, test.name)
		}
	}
}

func TestMissingFile(t *testing.T) {
	list := NewList(filepath.Join(t.TempDir(), "missing.json"), &testutil.Recorder{})
	_, err := list.Find("1")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
