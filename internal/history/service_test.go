package history

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/logger"
	"github.com/angelmondragon/inventario-backend/pkg/migrate/migratetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestJournalRecordsInInsertionOrder(t *testing.T) {
	client := migratetest.NewSQLite(t)
	repo := NewRepository(client.DB())
	var buf bytes.Buffer
	journal := NewJournal(repo, logger.New(logger.Options{ServiceName: "test", Output: &buf}))
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	journal.now = func() time.Time { return fixed }

	ctx := context.Background()
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := journal.Record(ctx, tx, Entry{Username: "admin", Action: "first", Location: "GDL"}); err != nil {
			return err
		}
		if err := journal.Record(ctx, tx, Entry{Username: "admin", Action: "elsewhere", Location: "SLP"}); err != nil {
			return err
		}
		return journal.Record(ctx, tx, Entry{Username: "luis", Action: "second", Location: "GDL"})
	})
	require.NoError(t, err)

	svc, err := NewService(repo)
	require.NoError(t, err)
	entries, err := svc.List(ctx, "GDL")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Action)
	assert.Equal(t, "second", entries[1].Action)
	assert.True(t, entries[0].CreatedAt.Equal(fixed), "got %s", entries[0].CreatedAt)
	assert.Contains(t, buf.String(), "history entry recorded")
}

func TestJournalRejectsIncompleteEntries(t *testing.T) {
	client := migratetest.NewSQLite(t)
	journal := NewJournal(NewRepository(client.DB()), nil)
	ctx := context.Background()

	assert.Error(t, journal.Record(ctx, nil, Entry{Username: "a", Action: "b", Location: "GDL"}))
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return journal.Record(ctx, tx, Entry{Username: "a", Location: "GDL"})
	})
	assert.Error(t, err)
}
