package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes formatting quirks common in bank exports: leading
// blank lines, mixed-case SEVERITY values and SGML-style tags missing their
// closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRegex.ReplaceAllString(content, "$1>")
	return content
}

// ParseOFX parses an OFX/QFX statement. Both bank and credit-card message
// sets are read; the transaction sign decides the direction.
func ParseOFX(data []byte) ([]ParsedTransaction, error) {
	content := preprocessOFX(string(data))

	resp, err := ofxgo.ParseResponse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var result []ParsedTransaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				result = append(result, convertOFXTransaction(tx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				result = append(result, convertOFXTransaction(tx))
			}
		}
	}
	return result, nil
}

func convertOFXTransaction(tx ofxgo.Transaction) ParsedTransaction {
	amount := decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2)

	txType := "DEBIT"
	if amount.Sign() >= 0 {
		txType = "CREDIT"
	}

	description := strings.TrimSpace(string(tx.Memo))
	if description == "" {
		description = strings.TrimSpace(string(tx.Name))
	}

	return ParsedTransaction{
		Date:        tx.DtPosted.Time,
		Description: description,
		Amount:      amount.Abs(),
		Type:        txType,
		Raw: map[string]string{
			"fitid": string(tx.FiTID),
			"memo":  description,
		},
	}
}
