package parser

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"findash-api/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .ofx, .qfx and .csv.
	ErrUnsupportedFormat = errors.New("unsupported statement format, use OFX or CSV")

	// ErrUnrecognizedCSV is returned when a CSV file does not follow the
	// standard template (data, descricao, valor, tipo).
	ErrUnrecognizedCSV = errors.New("unrecognized CSV layout, use the standard template")

	// ErrEmptyStatement is returned when a file parses but contains no
	// transactions.
	ErrEmptyStatement = errors.New("no transactions found in statement")
)

// ParsedTransaction is one statement line as read from the file, before it
// becomes an import item. Amount is always the absolute value; Type carries
// the direction.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        string // CREDIT | DEBIT
	Raw         map[string]string
}

// DetectFileType maps the upload filename to a statement format.
func DetectFileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx", ".qfx":
		return models.ImportFileTypeOFX, nil
	case ".csv":
		return models.ImportFileTypeCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Parse dispatches to the format-specific parser based on the filename.
func Parse(data []byte, filename string) ([]ParsedTransaction, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}

	var transactions []ParsedTransaction
	switch fileType {
	case models.ImportFileTypeOFX:
		transactions, err = ParseOFX(data)
	default:
		transactions, err = ParseCSV(data)
	}
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, ErrEmptyStatement
	}
	return transactions, nil
}
