package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/picklejar/pickleback/internal/inventory"
)

func TestRunListMissingInventory(t *testing.T) {
	var buf bytes.Buffer
	err := RunList(&buf, filepath.Join(t.TempDir(), "inventory.db"), "table")
	if err == nil {
		t.Fatal("expected error for missing inventory")
	}
	if got := GetExitCode(err); got != ExitNotFound {
		t.Errorf("expected exit code %d, got %d", ExitNotFound, got)
	}
	if !strings.Contains(err.Error(), "pickleback scan") {
		t.Errorf("error should point at scan: %v", err)
	}
}

func TestRunListEmptyInventory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "inventory.db")
	store, err := inventory.Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	var buf bytes.Buffer
	if err := RunList(&buf, dbPath, "table"); err != nil {
		t.Fatalf("RunList failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Inventory is empty.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunListInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := RunList(&buf, filepath.Join(t.TempDir(), "inventory.db"), "csv"); err == nil {
		t.Fatal("expected error for invalid format")
	}
}
