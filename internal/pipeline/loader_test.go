package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "welth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "alice", "ledger.jsonl"),
		`{"record":"account","id":"a1","name":"Main","type":"CURRENT","balance":"10000","is_default":true}`,
		`{"record":"budget","amount":"20000"}`,
		`{"record":"transaction","id":"t1","date":"2026-03-01","amount":"450","type":"EXPENSE","category":"Food"}`,
		`{"record":"transaction","id":"t2","date":"2026-03-02","amount":"-5","type":"EXPENSE"}`,
	)
	writeFile(t, filepath.Join(root, "orphan.jsonl"),
		`{"record":"transaction","id":"t3","date":"2026-03-03","amount":"90","type":"INCOME"}`,
	)

	var calls int
	result, err := Import(ctx, root, st, ImportOptions{}, func(_, _ int) { calls++ })
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if calls != 2 {
		t.Errorf("progress calls = %d, want 2", calls)
	}
	if result.ParsedFiles != 2 || result.ParseErrors != 1 {
		t.Errorf("ParsedFiles/ParseErrors = %d/%d, want 2/1", result.ParsedFiles, result.ParseErrors)
	}
	if result.Transactions != 1 || result.Accounts != 1 || result.Budgets != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", result.Rejected)
	}

	txns, err := st.ListTransactions(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 1 || txns[0].ID != "t1" {
		t.Fatalf("stored transactions = %+v", txns)
	}

	again, err := Import(ctx, root, st, ImportOptions{}, nil)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if again.SkippedFiles != 2 || again.ParsedFiles != 0 {
		t.Errorf("second import = %+v, want 2 skipped", again)
	}

	forced, err := Import(ctx, root, st, ImportOptions{Force: true, DefaultUser: "bob"}, nil)
	if err != nil {
		t.Fatalf("forced Import: %v", err)
	}
	if forced.Transactions != 2 || forced.Rejected != 0 {
		t.Errorf("forced import = %+v", forced)
	}
	txns, _ = st.ListTransactions(ctx, "alice", 0)
	if len(txns) != 1 {
		t.Errorf("reimport duplicated transactions: %d", len(txns))
	}
}

func TestReimportAppendedLedgerWithoutIDs(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	root := t.TempDir()
	path := filepath.Join(root, "alice", "ledger.jsonl")

	lines := []string{
		`{"record":"account","name":"Main","type":"CURRENT","balance":"10000","is_default":true}`,
		`{"record":"transaction","date":"2026-03-01","amount":"450","type":"EXPENSE","category":"Food"}`,
	}
	writeFile(t, path, lines...)
	if _, err := Import(ctx, root, st, ImportOptions{}, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}

	// Appending changes size and mtime, so the whole file is parsed again.
	writeFile(t, path, append(lines, `{"record":"transaction","date":"2026-03-02","amount":"120","type":"EXPENSE"}`)...)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	again, err := Import(ctx, root, st, ImportOptions{}, nil)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if again.ParsedFiles != 1 {
		t.Fatalf("ParsedFiles = %d, want 1", again.ParsedFiles)
	}
	if _, err := Import(ctx, root, st, ImportOptions{Force: true}, nil); err != nil {
		t.Fatalf("forced Import: %v", err)
	}

	txns, err := st.ListTransactions(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 {
		t.Errorf("transactions = %d, want 2", len(txns))
	}
	snap, err := LoadSnapshot(ctx, st, "alice", 0, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(snap.Accounts))
	}
	if got := snap.TotalBalance(); got.String() != "10000" {
		t.Errorf("TotalBalance = %s, want 10000", got)
	}
}

func TestImportMissingPath(t *testing.T) {
	result, err := Import(context.Background(), filepath.Join(t.TempDir(), "nope"), openStore(t), ImportOptions{}, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", result.TotalFiles)
	}
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "carol", "ledger.jsonl"),
		`{"record":"account","id":"a1","name":"Main","type":"CURRENT","balance":"700"}`,
		`{"record":"account","id":"a2","name":"Vault","type":"SAVINGS","balance":"300"}`,
		`{"record":"transaction","id":"t1","date":"2026-03-01","amount":"10","type":"EXPENSE"}`,
		`{"record":"transaction","id":"t2","date":"2026-03-02","amount":"20","type":"EXPENSE"}`,
	)
	if _, err := Import(ctx, root, st, ImportOptions{}, nil); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	snap, err := LoadSnapshot(ctx, st, "carol", 1, now)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "t2" {
		t.Errorf("Transactions = %+v, want only t2", snap.Transactions)
	}
	if snap.Profile != nil {
		t.Errorf("Profile = %+v, want nil", snap.Profile)
	}
	if snap.Budget != nil {
		t.Errorf("Budget = %+v, want nil", snap.Budget)
	}
	if got := snap.TotalBalance().String(); got != "1000" {
		t.Errorf("TotalBalance = %s, want 1000", got)
	}
	if !snap.Now.Equal(now) {
		t.Errorf("Now = %v, want %v", snap.Now, now)
	}
}
