package parser

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

const csvDateLayout = "2006-01-02"

// ParseCSV parses a statement in the standard template:
//
//	data,descricao,valor,tipo
//	2026-01-15,Exemplo Fornecedor,1500.00,DEBIT
//
// Header matching is case-insensitive, the separator may be ',' or ';' and
// the file may be UTF-8 or ISO-8859-1. A missing tipo column defaults every
// row to DEBIT.
func ParseCSV(data []byte) ([]ParsedTransaction, error) {
	if txs, err := parseCSVWith(data); err == nil {
		return txs, nil
	}

	// Banks in the wild still export Latin-1; retry once re-decoded.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, ErrUnrecognizedCSV
	}
	txs, err := parseCSVWith(decoded)
	if err != nil {
		return nil, ErrUnrecognizedCSV
	}
	return txs, nil
}

func parseCSVWith(data []byte) ([]ParsedTransaction, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectSeparator(data)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrUnrecognizedCSV
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(stripBOM(name)))] = i
	}

	dateIdx, okDate := cols["data"]
	descIdx, okDesc := cols["descricao"]
	amountIdx, okAmount := cols["valor"]
	typeIdx, okType := cols["tipo"]
	if !okDate || !okDesc || !okAmount {
		return nil, ErrUnrecognizedCSV
	}

	var result []ParsedTransaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ErrUnrecognizedCSV
		}
		if len(record) <= amountIdx || len(record) <= dateIdx || len(record) <= descIdx {
			continue
		}

		date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, ErrUnrecognizedCSV
		}

		rawAmount := strings.TrimSpace(record[amountIdx])
		rawAmount = strings.ReplaceAll(rawAmount, ",", ".")
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, ErrUnrecognizedCSV
		}

		txType := "DEBIT"
		if okType && len(record) > typeIdx {
			if strings.EqualFold(strings.TrimSpace(record[typeIdx]), "CREDIT") {
				txType = "CREDIT"
			}
		}

		result = append(result, ParsedTransaction{
			Date:        date,
			Description: strings.TrimSpace(record[descIdx]),
			Amount:      amount.Abs(),
			Type:        txType,
			Raw: map[string]string{
				"data":      record[dateIdx],
				"descricao": record[descIdx],
				"valor":     record[amountIdx],
			},
		})
	}

	if len(result) == 0 {
		return nil, ErrUnrecognizedCSV
	}
	return result, nil
}

// detectSeparator picks ';' when the first line contains one, ',' otherwise.
func detectSeparator(data []byte) rune {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	if bytes.ContainsRune(firstLine, ';') {
		return ';'
	}
	return ','
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// Template is the downloadable CSV template content served by the API.
const Template = "data,descricao,valor,tipo\n2026-01-15,Exemplo Fornecedor,1500.00,DEBIT\n"
