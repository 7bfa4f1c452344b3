package htmlutil

import (
	"bytes"
	"context"
	"net/url"

	"mejlis-roster/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("roster.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// findFirst does a pre-order search of the subtree rooted at node.
func findFirst(node *html.Node, tag atom.Atom) *html.Node {
	if node.Type == html.ElementNode && node.DataAtom == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		found := findFirst(child, tag)
		if found != nil {
			return found
		}
	}
	return nil
}

// FollowingFirst returns the first element with the given tag that comes
// after node in document order, excluding node's own descendants (the XPath
// `following::` axis).
func FollowingFirst(node *html.Node, tag atom.Atom) *html.Node {
	for current := node; current != nil; current = current.Parent {
		for sibling := current.NextSibling; sibling != nil; sibling = sibling.NextSibling {
			found := findFirst(sibling, tag)
			if found != nil {
				return found
			}
		}
	}
	return nil
}

type Anchor struct {
	Node *html.Node
	Name string
	Url  *url.URL
}

// GetAnchors resolves the href of every node in sel, skipping nodes without
// an href or with one that fails to parse.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		hasHref := false
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				hasHref = true
				break
			}
		}
		if !hasHref {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := textutil.Tidy(GetText(n))
		anchors = append(anchors, Anchor{
			Node: n,
			Name: name,
			Url:  link,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", link.String()),
		))
	}

	return anchors
}

// SetAttr sets (or replaces) an attribute on an element node.
func SetAttr(node *html.Node, key, value string) {
	for i, a := range node.Attr {
		if a.Key == key && a.Namespace == "" {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}
