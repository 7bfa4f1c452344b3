package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"mejlis-roster/internal/constituency"
	"mejlis-roster/internal/roster"
	"mejlis-roster/internal/store"
	"mejlis-roster/internal/wikidata"
	"mejlis-roster/internal/wikipedia"
	"mejlis-roster/lib/restyutil"
	"mejlis-roster/lib/telemetry"
)

// Run scrapes the roster described by cfg and writes it to out. Nothing is
// written to out unless every step succeeds.
func Run(ctx context.Context, cfg Config, tel telemetry.API, out io.Writer) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}

	var dump restyutil.InstrumentOutput
	if cfg.DumpHttp != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(cfg.DumpHttp)
		if err != nil {
			return fmt.Errorf("prepare http dump directory: %w", err)
		}
		dump = fsOutput
	}

	client := wikipedia.NewClient(wikipedia.ClientOptions{
		Timeout:    cfg.TimeoutDuration(),
		DumpOutput: dump,
		Telemetry:  tel,
	})

	doc, err := client.Document(ctx, cfg.Url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.Url, err)
	}
	err = wikidata.NewDecorator(client.Http, tel).Decorate(ctx, doc, cfg.Url)
	if err != nil {
		return fmt.Errorf("resolve wikidata items: %w", err)
	}

	list := constituency.NewList(cfg.Constituencies, tel)
	extractor := roster.NewExtractor(list, wikidata.Attr{}, tel)
	members, err := extractor.Members(doc)
	if err != nil {
		return err
	}

	var rendered bytes.Buffer
	err = roster.Write(&rendered, cfg.Format, members)
	if err != nil {
		return err
	}

	if cfg.Database.Enabled() {
		database, err := cfg.Database.OpenDB()
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()
		err = store.Save(ctx, database, members, time.Now())
		if err != nil {
			return fmt.Errorf("save roster: %w", err)
		}
	}

	_, err = out.Write(rendered.Bytes())
	return err
}
