package records

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Acheron02/Fatcheck-Web/internal/model"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidName = errors.New("invalid record name")
)

// Store reads per-student health record files from a directory tree laid
// out as <root>/<studentID>/<filename>. Records are never written through
// this service; the files land on disk out of band.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// List returns the records in a student's directory, newest metadata read
// straight from the filesystem. A missing directory is an empty list, not
// an error.
func (s *Store) List(studentID string) ([]model.HealthRecord, error) {
	dir, err := s.studentDir(studentID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.HealthRecord{}, nil
		}
		return nil, err
	}

	records := make([]model.HealthRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, model.HealthRecord{
			Filename: entry.Name(),
			Type:     RecordType(entry.Name()),
			Date:     info.ModTime().UTC(),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Filename < records[j].Filename
	})
	return records, nil
}

// Open returns the file for a record, confined to the student's directory.
// Names that escape it (separators, dot-dot, absolute paths) are rejected
// rather than resolved.
func (s *Store) Open(studentID, filename string) (*os.File, model.HealthRecord, error) {
	dir, err := s.studentDir(studentID)
	if err != nil {
		return nil, model.HealthRecord{}, err
	}
	if !safeName(filename) {
		return nil, model.HealthRecord{}, ErrInvalidName
	}

	path := filepath.Join(dir, filename)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.HealthRecord{}, ErrNotFound
		}
		return nil, model.HealthRecord{}, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, model.HealthRecord{}, ErrNotFound
	}

	record := model.HealthRecord{
		Filename: filename,
		Type:     RecordType(filename),
		Date:     info.ModTime().UTC(),
	}
	return file, record, nil
}

func (s *Store) studentDir(studentID string) (string, error) {
	if !safeName(studentID) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.root, studentID), nil
}

// RecordType classifies a record file by extension.
func RecordType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".xls", ".xlsx":
		return "xls"
	default:
		return "other"
	}
}

// ContentType maps a record file to the media type it is served with.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".xls", ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(filepath.Clean(name)) == name
}
