package importer

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bookhive/bookhive/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// batchSize is how many books are inserted per statement. Keeps each
// statement well under SQLite's bound-parameter limit.
const batchSize = 500

var expectedHeader = []string{"isbn", "title", "author", "year"}

// Result summarizes an import run.
type Result struct {
	Imported int64
	Skipped  int64
}

// Service bulk-loads catalog books from CSV.
type Service struct {
	db *bun.DB
}

// NewService creates a new importer service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// ImportFile imports books from the CSV file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	return s.Import(ctx, f)
}

// Import reads CSV rows (isbn,title,author,year with a header row) and
// inserts them in batches. Rows whose ISBN already exists in the catalog are
// skipped, so re-running an import is safe.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	result := &Result{}
	batch := make([]*models.Book, 0, batchSize)
	line := 1
	now := time.Now()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		line++

		book, err := parseRecord(record, now)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		batch = append(batch, book)
		if len(batch) == batchSize {
			if err := s.insertBatch(ctx, batch, result); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.insertBatch(ctx, batch, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *Service) insertBatch(ctx context.Context, batch []*models.Book, result *Result) error {
	res, err := s.db.NewInsert().
		Model(&batch).
		On("CONFLICT (isbn) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}

	result.Imported += inserted
	result.Skipped += int64(len(batch)) - inserted
	return nil
}

func validateHeader(header []string) error {
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return errors.Errorf("unexpected csv header: want %v, got %v", expectedHeader, header)
		}
	}
	return nil
}

func parseRecord(record []string, now time.Time) (*models.Book, error) {
	isbn := strings.TrimSpace(record[0])
	if isbn == "" {
		return nil, errors.New("isbn is empty")
	}

	year, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, errors.Errorf("invalid year %q", record[3])
	}

	return &models.Book{
		ISBN:      isbn,
		CreatedAt: now,
		UpdatedAt: now,
		Title:     strings.TrimSpace(record[1]),
		Author:    strings.TrimSpace(record[2]),
		Year:      year,
	}, nil
}
