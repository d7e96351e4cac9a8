package naming

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRunDirName(t *testing.T) {
	now := time.Date(2024, time.May, 14, 12, 30, 45, 0, time.Local)

	assert.Equal(t, "2405141230 - Acme Corp", EncodeRunDirName(now, "Acme Corp"))
	assert.Equal(t, "2405141230 - AcmeCorp", EncodeRunDirName(now, "Acme/Corp"))
	assert.Equal(t, "2405141230 - Unknown Company", EncodeRunDirName(now, "  "))
}

func TestDecodeRunDirName_Valid(t *testing.T) {
	decoded, err := DecodeRunDirName("2405141230 - Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.May, 14, 12, 30, 0, 0, time.Local), decoded.Timestamp)
	assert.Equal(t, "Acme Corp", decoded.Company)
}

func TestDecodeRunDirName_NoCompany(t *testing.T) {
	for _, name := range []string{"2405141230", "2405141230 - ", "2405141230extra"} {
		decoded, err := DecodeRunDirName(name)
		require.NoError(t, err, name)
		assert.Equal(t, UnknownCompany, decoded.Company, name)
	}
}

func TestDecodeRunDirName_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		reason string
	}{
		{"abc", "shorter than 10 characters"},
		{"", "shorter than 10 characters"},
		{"24051412a0 - Acme", "timestamp prefix is not numeric"},
		{"Applications", "timestamp prefix is not numeric"},
		{"2413141230 - Acme", "timestamp prefix is not a valid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRunDirName(tt.name)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.name, parseErr.Name)
			assert.Equal(t, tt.reason, parseErr.Reason)
		})
	}
}

func TestRunDirName_RoundTrip(t *testing.T) {
	now := time.Date(2025, time.January, 3, 9, 5, 59, 0, time.Local)
	companies := []string{
		"Acme Corp",
		"Foo - Bar Holdings",
		"AT&T",
		"Question? Marks*",
		`Back\slash: "Quoted" <Angle>|Pipe`,
		"  padded  ",
		"Ünïcödé GmbH",
	}

	for _, company := range companies {
		t.Run(company, func(t *testing.T) {
			decoded, err := DecodeRunDirName(EncodeRunDirName(now, company))
			require.NoError(t, err)
			assert.Equal(t, now.Truncate(time.Minute), decoded.Timestamp)
			assert.Equal(t, SanitizeRemove(company), decoded.Company)
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ab c", SanitizeRemove(` a<b>:"/\|?* c `))
	assert.Equal(t, "a_b_c", SanitizeReplace("a/b:c"))
	assert.Equal(t, "tab_here", SanitizeReplace("tab\there"))
}

func TestStripBaseName(t *testing.T) {
	assert.Equal(t, "AB Co", StripBaseName(`A/B; Co\`))
	assert.Equal(t, "Acme", StripBaseName("Acme"))
}

func TestDayPrefix(t *testing.T) {
	assert.Equal(t, "240514", DayPrefix(time.Date(2024, time.May, 14, 23, 59, 0, 0, time.Local)))
}

func TestVariantFileName(t *testing.T) {
	assert.Equal(t, "Cover - 0.pdf", VariantFileName("Cover", 0))
	assert.Equal(t, "Jane Doe - Acme - Engineer - 6.pdf", VariantFileName("Jane Doe - Acme - Engineer", 6))
}

func TestIsPrimaryVariant(t *testing.T) {
	assert.True(t, IsPrimaryVariant("Cover - 0.pdf"))
	assert.True(t, IsPrimaryVariant("Cover - 0.PDF"))
	assert.False(t, IsPrimaryVariant("Cover - 10.pdf"))
	assert.False(t, IsPrimaryVariant("Cover - 1.pdf"))
	assert.False(t, IsPrimaryVariant("Cover-0.pdf"))
}

func TestDecodeVariantFileName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		company  string
		want     string
	}{
		{"simple", "Jane Doe - Acme Corp - Engineer - 0.pdf", "Acme Corp", "Engineer"},
		{"case insensitive", "Jane Doe - ACME CORP - Engineer - 0.pdf", "acme corp", "Engineer"},
		{"multi token position", "Jane Doe - Acme - Senior - Platform Engineer - 0.pdf", "Acme", "Senior - Platform Engineer"},
		{"company with delimiter", "Jane Doe - Foo - Bar - QA Analyst - 0.pdf", "Foo - Bar", "QA Analyst"},
		{"company absent", "Cover - 0.pdf", "Acme Corp", UnknownPosition},
		{"nothing after company", "Jane Doe - Acme - 0.pdf", "Acme", UnknownPosition},
		{"unknown company sentinel", "Jane Doe - Acme - Dev - 0.pdf", UnknownCompany, UnknownPosition},
		{"sanitized company match", "Jane Doe - AT&T Labs - Intern - 0.pdf", "AT&T Labs", "Intern"},
		{"no numeric suffix", "Jane Doe - Acme - Dev.pdf", "Acme", "Dev"},
		{"semicolon stripped from base name", "Jane - AB - Eng - 0.pdf", "A;B", "Eng"},
		{"semicolon followed by space", "Jane - Tom Jerry - Roadie - 0.pdf", "Tom; Jerry", "Roadie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeVariantFileName(tt.fileName, tt.company))
		})
	}
}

func TestEncodeArchivedFileName(t *testing.T) {
	date := time.Date(2024, time.May, 14, 12, 30, 0, 0, time.Local)

	assert.Equal(t, "14 May 2024 12.30 - Acme Corp - Unknown Position.pdf",
		EncodeArchivedFileName(date, "Acme Corp", UnknownPosition))
	assert.Equal(t, "04 July 2023 08.05 - Acme - C_C++ Developer.pdf",
		EncodeArchivedFileName(time.Date(2023, time.July, 4, 8, 5, 0, 0, time.Local), "Acme", "C/C++ Developer"))
}

func TestArchivedFileName_RoundTrip(t *testing.T) {
	date := time.Date(2024, time.May, 14, 12, 30, 0, 0, time.Local)

	decoded, err := DecodeArchivedFileName(EncodeArchivedFileName(date, "Acme Corp", "Senior - Engineer"))
	require.NoError(t, err)

	assert.Equal(t, date, decoded.Date)
	assert.Equal(t, "Acme Corp", decoded.Company)
	assert.Equal(t, "Senior - Engineer", decoded.Position)
}

func TestDecodeArchivedFileName_Invalid(t *testing.T) {
	for _, name := range []string{"notes.txt", "14 May 2024 12.30 - Acme.pdf", "yesterday - Acme - Dev.pdf"} {
		_, err := DecodeArchivedFileName(name)
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr), name)
	}
}
