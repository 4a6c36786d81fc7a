// Package manifest reads the CSV item lists that describe one transfer:
// one row per source/destination pair, with a per-row recursive flag.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Sentinel errors for manifest reading.
var (
	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest file not found")

	// ErrMalformedManifest indicates a row is not valid CSV or does not have
	// exactly three columns.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrInvalidFlag indicates a recursive flag other than "true" or "false".
	ErrInvalidFlag = errors.New("invalid recursive flag")
)

// InputError describes a manifest problem and where it was found.
// Row is the zero-based row index, or -1 when the whole file is affected.
type InputError struct {
	Path string
	Row  int
	Err  error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("manifest row %d: %v", e.Row, e.Err)
	}
	if e.Row < 0 {
		return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("manifest %s: row %d: %v", e.Path, e.Row, e.Err)
}

// Unwrap returns the underlying error for error chain traversal.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Column order within a row. The file has no header.
const (
	colSource = iota
	colDestination
	colRecursive
	numColumns
)

// Record is one manifest row. The recursive flag is kept as text and
// interpreted by ParseBool when the transfer request is built.
type Record struct {
	SourcePath      string
	DestinationPath string
	Recursive       string
}

// Table holds the manifest rows in file order. The slice index is the
// zero-based row number.
type Table []Record

// Read opens and parses the manifest at path.
func Read(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InputError{Path: path, Row: -1, Err: ErrManifestNotFound}
		}
		return nil, &InputError{Path: path, Row: -1, Err: err}
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			ie.Path = path
			return nil, ie
		}
		return nil, &InputError{Path: path, Row: -1, Err: err}
	}
	return table, nil
}

// Parse reads manifest rows from r. Every row must have exactly three fields.
func Parse(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = numColumns

	table := Table{}
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputError{Row: row, Err: fmt.Errorf("%w: %v", ErrMalformedManifest, err)}
		}
		table = append(table, Record{
			SourcePath:      fields[colSource],
			DestinationPath: fields[colDestination],
			Recursive:       fields[colRecursive],
		})
	}
	return table, nil
}
