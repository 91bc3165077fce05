package blogclient

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type sessionRecord struct {
	bun.BaseModel `bun:"table:session_store,alias:ss"`
	Key           string `bun:"key,pk"`
	Value         string `bun:"value,notnull"`
}

// BunKeyValue persists session entries in a local SQLite database, the
// client-side stand-in for the browser's durable storage
type BunKeyValue struct {
	db *bun.DB
}

// NewBunKeyValue opens (or creates) the SQLite database at path and ensures
// the session table exists. Use ":memory:" for an ephemeral database.
func NewBunKeyValue(ctx context.Context, path string) (*BunKeyValue, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to open session database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*sessionRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create session table")
	}

	return &BunKeyValue{db: db}, nil
}

func (b *BunKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	record := &sessionRecord{}
	err := b.db.NewSelect().
		Model(record).
		Where("key = ?", key).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read session entry")
	}

	return record.Value, true, nil
}

func (b *BunKeyValue) Set(ctx context.Context, key, value string) error {
	record := &sessionRecord{Key: key, Value: value}
	_, err := b.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write session entry")
	}
	return nil
}

func (b *BunKeyValue) Delete(ctx context.Context, key string) error {
	_, err := b.db.NewDelete().
		Model((*sessionRecord)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to delete session entry")
	}
	return nil
}

func (b *BunKeyValue) Close() error {
	return b.db.Close()
}
