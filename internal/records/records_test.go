package records

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func TestListRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "student-1", "checkup.pdf"), "pdf-bytes")
	writeFile(t, filepath.Join(root, "student-1", "bmi.xlsx"), "xls-bytes")
	writeFile(t, filepath.Join(root, "student-1", "notes.txt"), "text")

	store := NewStore(root)
	records, err := store.List("student-1")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	types := map[string]string{}
	for _, record := range records {
		types[record.Filename] = record.Type
		if record.Date.IsZero() {
			t.Fatalf("expected modification time for %s", record.Filename)
		}
	}
	if types["checkup.pdf"] != "pdf" || types["bmi.xlsx"] != "xls" || types["notes.txt"] != "other" {
		t.Fatalf("unexpected record types: %v", types)
	}
}

func TestListMissingDirectory(t *testing.T) {
	store := NewStore(t.TempDir())
	records, err := store.List("no-such-student")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d records", len(records))
	}
}

func TestOpenRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "student-1", "checkup.pdf"), "pdf-bytes")

	store := NewStore(root)
	file, record, err := store.Open("student-1", "checkup.pdf")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	defer file.Close()

	if record.Type != "pdf" {
		t.Fatalf("expected pdf type, got %s", record.Type)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

func TestOpenMissingRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "student-1", "checkup.pdf"), "pdf-bytes")

	store := NewStore(root)
	if _, _, err := store.Open("student-1", "other.pdf"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "secret.txt"), "secret")
	writeFile(t, filepath.Join(root, "student-1", "checkup.pdf"), "pdf-bytes")

	store := NewStore(root)
	names := []string{"../secret.txt", "..", ".", "a/b.pdf", `a\b.pdf`, ""}
	for _, name := range names {
		if _, _, err := store.Open("student-1", name); err != ErrInvalidName {
			t.Fatalf("expected %q to be rejected, got %v", name, err)
		}
	}
	if _, err := store.List("../"); err != ErrInvalidName {
		t.Fatalf("expected traversal student id to be rejected, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"a.pdf":  "application/pdf",
		"a.XLSX": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.xls":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.txt":  "application/octet-stream",
		"a":      "application/octet-stream",
	}
	for name, expect := range cases {
		if got := ContentType(name); got != expect {
			t.Fatalf("expected %s for %s, got %s", expect, name, got)
		}
	}
}
