package parser

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260115120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>341
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101120000[0:GMT]
<DTEND>20260131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260110120000[0:GMT]
<TRNAMT>-150.50
<FITID>2026011001
<MEMO>PAGAMENTO FORNECEDOR ACME
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260112120000[0:GMT]
<TRNAMT>2500.00
<FITID>2026011201
<NAME>TED RECEBIDA CLIENTE BETA
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  error
	}{
		{name: "ofx extension", filename: "extrato.ofx", want: "OFX"},
		{name: "qfx extension", filename: "extrato.QFX", want: "OFX"},
		{name: "csv extension", filename: "extrato.csv", want: "CSV"},
		{name: "pdf rejected", filename: "extrato.pdf", wantErr: ErrUnsupportedFormat},
		{name: "no extension rejected", filename: "extrato", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(tt.filename)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSV(t *testing.T) {
	t.Run("standard template", func(t *testing.T) {
		data := []byte("data,descricao,valor,tipo\n" +
			"2026-01-10,PAGAMENTO ACME,150.50,DEBIT\n" +
			"2026-01-12,TED CLIENTE BETA,2500.00,CREDIT\n")

		txs, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, "PAGAMENTO ACME", txs[0].Description)
		assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("150.50")))
		assert.Equal(t, "DEBIT", txs[0].Type)
		assert.Equal(t, 2026, txs[0].Date.Year())

		assert.Equal(t, "CREDIT", txs[1].Type)
		assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("2500.00")))
	})

	t.Run("semicolon separator and comma decimals", func(t *testing.T) {
		data := []byte("data;descricao;valor;tipo\n" +
			"2026-01-10;PAGAMENTO ACME;150,50;DEBIT\n")

		txs, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("150.50")))
	})

	t.Run("missing tipo column defaults to debit", func(t *testing.T) {
		data := []byte("data,descricao,valor\n2026-01-10,PAGAMENTO ACME,150.50\n")

		txs, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "DEBIT", txs[0].Type)
	})

	t.Run("case-insensitive header", func(t *testing.T) {
		data := []byte("Data,Descricao,Valor,Tipo\n2026-01-10,PAGAMENTO ACME,150.50,credit\n")

		txs, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "CREDIT", txs[0].Type)
	})

	t.Run("negative amounts stored as absolute", func(t *testing.T) {
		data := []byte("data,descricao,valor,tipo\n2026-01-10,PAGAMENTO ACME,-150.50,DEBIT\n")

		txs, err := ParseCSV(data)
		require.NoError(t, err)
		assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("150.50")))
	})

	t.Run("iso-8859-1 encoded file", func(t *testing.T) {
		utf8Data := "data,descricao,valor,tipo\n2026-01-10,PAGAMENTO CARTÃO,150.50,DEBIT\n"
		latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf8Data))
		require.NoError(t, err)

		txs, err := ParseCSV(latin1)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "PAGAMENTO CARTÃO", txs[0].Description)
	})

	t.Run("unknown header rejected", func(t *testing.T) {
		data := []byte("date,description,amount\n2026-01-10,PAGAMENTO,150.50\n")

		_, err := ParseCSV(data)
		assert.ErrorIs(t, err, ErrUnrecognizedCSV)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		data := []byte("data,descricao,valor,tipo\n10/01/2026,PAGAMENTO,150.50,DEBIT\n")

		_, err := ParseCSV(data)
		assert.ErrorIs(t, err, ErrUnrecognizedCSV)
	})
}

func TestParseOFX(t *testing.T) {
	t.Run("bank statement", func(t *testing.T) {
		txs, err := ParseOFX([]byte(sampleBankOFX))
		require.NoError(t, err)
		require.Len(t, txs, 2)

		assert.Equal(t, "PAGAMENTO FORNECEDOR ACME", txs[0].Description)
		assert.Equal(t, "DEBIT", txs[0].Type)
		assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("150.50")))
		assert.Equal(t, "2026011001", txs[0].Raw["fitid"])

		assert.Equal(t, "TED RECEBIDA CLIENTE BETA", txs[1].Description)
		assert.Equal(t, "CREDIT", txs[1].Type)
		assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("2500.00")))
	})

	t.Run("leading whitespace and lowercase severity tolerated", func(t *testing.T) {
		messy := "\n\n  " + strings.ReplaceAll(sampleBankOFX, "<SEVERITY>INFO", "<SEVERITY>Info</SEVERITY>")
		txs, err := ParseOFX([]byte(messy))
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseOFX([]byte("not an ofx file at all"))
		assert.Error(t, err)
	})
}

func TestParse(t *testing.T) {
	t.Run("empty statement rejected", func(t *testing.T) {
		data := []byte("data,descricao,valor,tipo\n")
		_, err := Parse(data, "extrato.csv")
		assert.Error(t, err)
	})

	t.Run("dispatches by extension", func(t *testing.T) {
		txs, err := Parse([]byte(sampleBankOFX), "extrato.ofx")
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Parse([]byte("x"), "extrato.xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
