package csvtable

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
)

const testHeader = "id,name,count"

func TestReadTableMissingFileIsEmpty(t *testing.T) {
	rows, err := ReadTable(filepath.Join(t.TempDir(), "none.csv"), testHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected empty table, got %v", rows)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	in := [][]string{{"1", "alpha", "3"}, {"2", "beta", "0"}}
	if err := WriteTable(path, testHeader, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := ReadTable(path, testHeader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[0][1] != "alpha" || rows[1][2] != "0" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReadTableTolerantOfBlankAndDirtyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	content := testHeader + "\n1,a,2\n\n   \nbroken,row\n2,b,5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rows, err := ReadTable(path, testHeader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestReadTableRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n"), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ReadTable(path, testHeader); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestSanitizeStripsDelimiters(t *testing.T) {
	got := Sanitize("he,llo\nworld")
	if got != "he llo world" {
		t.Fatalf("unexpected sanitized value: %q", got)
	}
}

func TestWithLockSerializesReadModifyWrite(t *testing.T) {
	engine, err := NewEngine(t.TempDir())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	path := filepath.Join(engine.Root(), "t.csv")
	if err := WriteTable(path, testHeader, [][]string{{"1", "a", "0"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := engine.WithLock("u", func() error {
				rows, err := ReadTable(path, testHeader)
				if err != nil {
					return err
				}
				n, _ := strconv.Atoi(rows[0][2])
				rows[0][2] = strconv.Itoa(n + 1)
				return WriteTable(path, testHeader, rows)
			})
			if err != nil {
				t.Errorf("locked update: %v", err)
			}
		}()
	}
	wg.Wait()

	rows, err := ReadTable(path, testHeader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rows[0][2] != strconv.Itoa(workers) {
		t.Fatalf("lost updates: got %s, want %d", rows[0][2], workers)
	}
}
