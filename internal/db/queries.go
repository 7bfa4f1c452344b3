package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Member struct {
	Position   int64
	WikidataID string
	Name       string
	AreaLabel  string
	Area       string
	PartyLabel string
	Party      string
	ScrapedAt  int64
}

const deleteAllMembers = `delete from member`

func (q *Queries) DeleteAllMembers(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllMembers)
	return err
}

const insertMember = `insert into member(
    position, wikidata_id, name, area_label, area, party_label, party, scraped_at
) values (?, ?, ?, ?, ?, ?, ?, ?)`

type InsertMemberParams = Member

func (q *Queries) InsertMember(ctx context.Context, arg InsertMemberParams) error {
	_, err := q.db.ExecContext(ctx, insertMember,
		arg.Position,
		arg.WikidataID,
		arg.Name,
		arg.AreaLabel,
		arg.Area,
		arg.PartyLabel,
		arg.Party,
		arg.ScrapedAt,
	)
	return err
}

const getAllMembers = `select
    position, wikidata_id, name, area_label, area, party_label, party, scraped_at
from member order by position`

func (q *Queries) GetAllMembers(ctx context.Context) ([]Member, error) {
	rows, err := q.db.QueryContext(ctx, getAllMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Member
	for rows.Next() {
		var i Member
		err := rows.Scan(
			&i.Position,
			&i.WikidataID,
			&i.Name,
			&i.AreaLabel,
			&i.Area,
			&i.PartyLabel,
			&i.Party,
			&i.ScrapedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
