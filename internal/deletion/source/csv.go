// Package source reads the account ids to delete from tabular input.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"so4tdelete/internal/deletion/model"
)

// AccountIDColumn is the header naming the column of interest.
const AccountIDColumn = "account_id"

var ErrMissingColumn = errors.New("csv has no " + AccountIDColumn + " column")

// RowError points at a CSV row whose account id is unusable.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("csv line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadAccountIDsFile opens path and reads its account_id column.
func ReadAccountIDsFile(path string) ([]model.AccountID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAccountIDs(f)
}

// ReadAccountIDs reads the account_id column in file order. Other columns
// are ignored and rows may have differing field counts.
func ReadAccountIDs(r io.Reader) ([]model.AccountID, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := -1
	for i, name := range header {
		// Spreadsheet exports may start with a UTF-8 byte order mark.
		name = strings.TrimPrefix(name, "\uFEFF")
		if strings.EqualFold(strings.TrimSpace(name), AccountIDColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrMissingColumn
	}

	ids := []model.AccountID{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if col >= len(record) {
			return nil, &RowError{Line: line, Err: fmt.Errorf("missing %s field", AccountIDColumn)}
		}
		id, err := model.ParseAccountID(record[col])
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
