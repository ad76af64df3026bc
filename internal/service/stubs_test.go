package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradejournal/internal/config"
	"tradejournal/internal/db"
	"tradejournal/internal/email"
	"tradejournal/internal/marketdata"
	gormrepository "tradejournal/internal/repository/gorm"
)

func newStore(t *testing.T) *gormrepository.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection keeps the in-memory database shared.
	handle, err := db.Wrap(gdb, config.DBConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := db.AutoMigrate(handle); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(handle) })
	return gormrepository.New(gdb)
}

type stubMailer struct {
	mu   sync.Mutex
	sent []email.Message
	fail map[string]bool
}

func (m *stubMailer) Send(_ context.Context, msg email.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(msg.To) > 0 && m.fail[msg.To[0]] {
		return "", errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func (m *stubMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type stubMarket struct {
	bar marketdata.Bar
	err error
}

func (m stubMarket) PreviousClose(context.Context, string) (marketdata.Bar, error) {
	return m.bar, m.err
}

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (l *stubLLM) Enabled() bool { return true }

func (l *stubLLM) Complete(context.Context, string, string) (string, error) {
	l.calls++
	return l.reply, l.err
}

type stubObjects struct {
	uploaded []string
	removed  []string
	err      error
}

func (o *stubObjects) Upload(_ context.Context, path, _ string, _ []byte) error {
	o.uploaded = append(o.uploaded, path)
	return nil
}

func (o *stubObjects) Remove(_ context.Context, paths []string) error {
	if o.err != nil {
		return o.err
	}
	o.removed = append(o.removed, paths...)
	return nil
}

func (o *stubObjects) PublicURL(path string) string { return "https://cdn.test/" + path }

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
