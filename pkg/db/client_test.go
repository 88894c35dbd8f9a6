package db

import (
	"context"
	"errors"
	"testing"

	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	"gorm.io/gorm"
)

func newSQLiteClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestClientPing(t *testing.T) {
	client := newSQLiteClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	if err := client.DB().WithContext(ctx).Exec("CREATE TABLE tx_probe (id INTEGER PRIMARY KEY)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO tx_probe (id) VALUES (1)").Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected rollback error, got %v", err)
	}

	var count int64
	if err := client.DB().WithContext(ctx).Raw("SELECT COUNT(*) FROM tx_probe").Scan(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to discard insert, found %d rows", count)
	}
}
