// Package store persists a scraped roster into sqlite or a remote libsql
// database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	"mejlis-roster/internal/db"
	"mejlis-roster/internal/roster"
)

type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

// OpenDB opens the remote libsql database when Url is set, otherwise the
// local sqlite file (created if missing). The schema is applied either way.
func (c Config) OpenDB() (*sql.DB, error) {
	var (
		database *sql.DB
		err      error
	)
	switch {
	case c.Url != "":
		database, err = c.openLibsql()
	case c.File != "":
		database, err = c.openSqlite()
	default:
		return nil, fmt.Errorf("a database file or url was not specified")
	}
	if err != nil {
		return nil, err
	}

	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return database, nil
}

func (c Config) openLibsql() (*sql.DB, error) {
	dsn, err := url.Parse(c.Url)
	if err != nil {
		return nil, err
	}
	if c.AuthToken != "" {
		query := dsn.Query()
		query.Set("authToken", c.AuthToken)
		dsn.RawQuery = query.Encode()
	}
	return sql.Open("libsql", dsn.String())
}

func (c Config) openSqlite() (*sql.DB, error) {
	_, statErr := os.Stat(c.File)
	if os.IsNotExist(statErr) {
		f, err := os.Create(c.File)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	database, err := sql.Open("sqlite", c.File)
	if err != nil {
		return nil, err
	}
	// sqlite only allows one writer at a time.
	database.SetMaxOpenConns(1)
	_, err = database.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Save replaces the stored roster with members in a single transaction.
func Save(ctx context.Context, database *sql.DB, members []roster.Member, scrapedAt time.Time) error {
	tx, discard, commit, err := db.NewMakeTx(database)(ctx)
	if err != nil {
		return fmt.Errorf("make tx: %w", err)
	}
	defer discard()

	err = tx.DeleteAllMembers(ctx)
	if err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	for i, m := range members {
		err = tx.InsertMember(ctx, db.InsertMemberParams{
			Position:   int64(i),
			WikidataID: m.ID,
			Name:       m.Name,
			AreaLabel:  m.AreaLabel,
			Area:       m.Area,
			PartyLabel: m.PartyLabel,
			Party:      m.Party,
			ScrapedAt:  scrapedAt.Unix(),
		})
		if err != nil {
			return fmt.Errorf("insert member %q: %w", m.Name, err)
		}
	}

	return commit()
}

// Load returns the stored roster in its original order.
func Load(ctx context.Context, database *sql.DB) ([]roster.Member, error) {
	rows, err := db.New(database).GetAllMembers(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]roster.Member, len(rows))
	for i, r := range rows {
		members[i] = roster.Member{
			ID:         r.WikidataID,
			Name:       r.Name,
			AreaLabel:  r.AreaLabel,
			Area:       r.Area,
			PartyLabel: r.PartyLabel,
			Party:      r.Party,
		}
	}
	return members, nil
}
