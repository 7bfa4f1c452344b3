// Package wikipedia fetches and parses Wikipedia articles.
package wikipedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"mejlis-roster/lib/restyutil"
	"mejlis-roster/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("roster.internal.wikipedia")

// DefaultPageURL is the article listing the members of the VI convocation of
// the Milli Majlis.
const DefaultPageURL = "https://az.wikipedia.org/wiki/Az%C9%99rbaycan_Milli_M%C9%99clisinin_VI_%C3%A7a%C4%9F%C4%B1r%C4%B1%C5%9F%C4%B1"

// UserAgent identifies the tool as required by the Wikimedia user-agent policy.
const UserAgent = "mejlis-roster/1.0 (Milli Majlis roster extraction) go-resty"

const (
	report_client_document = "client.document"
)

var ErrStatus = errors.New("unexpected response status")

type ClientOptions struct {
	// if unspecified, requests do not time out.
	Timeout time.Duration
	// if nil, HTTP messages are not dumped.
	DumpOutput restyutil.InstrumentOutput
	Telemetry  telemetry.API
}

type Client struct {
	Http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions) *Client {
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("wikipedia", tel)

	client := resty.New()
	client.SetHeader("user-agent", UserAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(client, "roster.internal.wikipedia/http", tel)
	if opts.DumpOutput != nil {
		restyutil.DumpMessages(client, opts.DumpOutput)
	}

	return &Client{Http: client, tel: tel}
}

// Document fetches pageUrl and parses it, any status other than 2xx is an
// error wrapping ErrStatus.
func (c *Client) Document(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "Document")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_document, err, pageUrl)
		return nil, err
	}
	if !res.IsSuccess() {
		err = fmt.Errorf("%w: GET %s: %s", ErrStatus, pageUrl, res.Status())
		c.tel.ReportBroken(report_client_document, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_document, err, pageUrl)
		return nil, err
	}
	return doc, nil
}
