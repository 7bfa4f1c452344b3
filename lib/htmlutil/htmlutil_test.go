package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFollowingFirst(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "sibling",
			body:     `<h2>A</h2><p>x</p><table id="t1"></table><table id="t2"></table>`,
			expected: "t1",
		},
		{
			name:     "wrapped heading",
			body:     `<div class="mw-heading"><h2>A</h2></div><div><table id="nested"></table></div>`,
			expected: "nested",
		},
		{
			name:     "skips earlier tables",
			body:     `<table id="before"></table><h2>A</h2><section><table id="after"></table></section>`,
			expected: "after",
		},
		{
			name: "none",
			body: `<table id="before"></table><h2>A</h2>`,
		},
	}

	for _, test := range testCases {
		doc := parse(t, test.body)
		heading := doc.Find("h2").Nodes[0]
		found := FollowingFirst(heading, atom.Table)
		if test.expected == "" {
			require.Nil(t, found, test.name)
			continue
		}
		require.NotNil(t, found, test.name)
		require.Equal(t, test.expected, goquery.NewDocumentFromNode(found).AttrOr("id", ""), test.name)
	}
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<a href="/wiki/Bak%C4%B1">  Bakı
	</a><a>no href</a><a href="https://az.wikipedia.org/wiki/X#s">X</a>`)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, "Bakı", anchors[0].Name)
	require.Equal(t, "/wiki/Bakı", anchors[0].Url.Path)
	require.Equal(t, "az.wikipedia.org", anchors[1].Url.Host)
	require.Equal(t, "s", anchors[1].Url.Fragment)
}

func TestSetAttr(t *testing.T) {
	doc := parse(t, `<a href="/wiki/A" wikidata="Q1">A</a>`)
	node := doc.Find("a").Nodes[0]

	SetAttr(node, "wikidata", "Q2")
	SetAttr(node, "title", "A")

	sel := doc.Find("a")
	require.Equal(t, "Q2", sel.AttrOr("wikidata", ""))
	require.Equal(t, "A", sel.AttrOr("title", ""))
	require.Len(t, node.Attr, 3)
}
