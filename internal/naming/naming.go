package naming

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// Delimiter separates the fields of every encoded name
	Delimiter = " - "

	// TimestampLayout is the yyMMddHHmm prefix of a run directory
	TimestampLayout = "0601021504"
	// TimestampLength is the fixed width of the run directory prefix
	TimestampLength = len(TimestampLayout)
	// DayPrefixLayout is the yyMMdd prefix shared by all runs of one day
	DayPrefixLayout = "060102"
	// ArchivedDateLayout renders as "dd MonthName yyyy HH.mm"
	ArchivedDateLayout = "02 January 2006 15.04"

	// UnknownCompany is returned when a run directory carries no company
	UnknownCompany = "Unknown Company"
	// UnknownPosition is returned when a position cannot be recovered
	UnknownPosition = "Unknown Position"

	// PDFExt is the extension of every variant and archived document
	PDFExt = ".pdf"
	// PrimaryVariantSuffix marks the variant-0 document inside a run directory
	PrimaryVariantSuffix = Delimiter + "0" + PDFExt

	replacementChar = '_'
)

// illegalNameChars is the portable set of characters that cannot appear in
// a file name on at least one common filesystem.
const illegalNameChars = `<>:"/\|?*`

func isIllegal(r rune) bool {
	return r < 0x20 || r == 0x7f || strings.ContainsRune(illegalNameChars, r)
}

// SanitizeRemove drops every illegal file name character and trims
// surrounding whitespace.
func SanitizeRemove(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isIllegal(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}

// baseNameStripper removes the characters dropped from variant base names
var baseNameStripper = strings.NewReplacer("/", "", "\\", "", ";", "")

// StripBaseName removes '/', '\' and ';', the characters never written into
// a variant base name.
func StripBaseName(name string) string {
	return baseNameStripper.Replace(name)
}

// SanitizeReplace substitutes '_' for every illegal file name character.
func SanitizeReplace(name string) string {
	return strings.Map(func(r rune) rune {
		if isIllegal(r) {
			return replacementChar
		}
		return r
	}, name)
}

// RunDirName is the decoded form of a run directory name
type RunDirName struct {
	Timestamp time.Time
	Company   string
}

// EncodeRunDirName builds "{yyMMddHHmm} - {company}".
func EncodeRunDirName(now time.Time, company string) string {
	sanitized := SanitizeRemove(company)
	if sanitized == "" {
		sanitized = UnknownCompany
	}
	return now.Format(TimestampLayout) + Delimiter + sanitized
}

// DecodeRunDirName parses a run directory name. The first ten characters must
// be a numeric yyMMddHHmm timestamp; everything after the first delimiter is
// the company.
func DecodeRunDirName(name string) (RunDirName, error) {
	if len(name) < TimestampLength {
		return RunDirName{}, &ParseError{Name: name, Reason: fmt.Sprintf("shorter than %d characters", TimestampLength)}
	}

	prefix := name[:TimestampLength]
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < '0' || prefix[i] > '9' {
			return RunDirName{}, &ParseError{Name: name, Reason: "timestamp prefix is not numeric"}
		}
	}

	ts, err := time.ParseInLocation(TimestampLayout, prefix, time.Local)
	if err != nil {
		return RunDirName{}, &ParseError{Name: name, Reason: "timestamp prefix is not a valid date", Cause: err}
	}

	company := ""
	if idx := strings.Index(name, Delimiter); idx >= 0 {
		company = strings.TrimSpace(name[idx+len(Delimiter):])
	}
	if company == "" {
		company = UnknownCompany
	}

	return RunDirName{Timestamp: ts, Company: company}, nil
}

// DayPrefix returns the yyMMdd prefix shared by every run directory created
// on the same day as now.
func DayPrefix(now time.Time) string {
	return now.Format(DayPrefixLayout)
}

// VariantFileName builds "{baseName} - {index}.pdf".
func VariantFileName(baseName string, index int) string {
	return fmt.Sprintf("%s%s%d%s", baseName, Delimiter, index, PDFExt)
}

// IsPrimaryVariant reports whether fileName is a variant-0 document.
func IsPrimaryVariant(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), PrimaryVariantSuffix)
}

// DecodeVariantFileName recovers the position from a variant file name such
// as "Jane Doe - Acme - Backend Engineer - 0.pdf" given its company. Tokens
// between the company and the trailing numeric suffix form the position.
// When the company is not present the result is UnknownPosition.
func DecodeVariantFileName(fileName, company string) string {
	tokens := strings.Split(trimPDFExt(fileName), Delimiter)
	if len(tokens) > 1 && isNumeric(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	companyTokens := strings.Split(company, Delimiter)
	for i := 0; i+len(companyTokens) <= len(tokens); i++ {
		if !tokensMatch(tokens[i:i+len(companyTokens)], companyTokens) {
			continue
		}
		position := strings.TrimSpace(strings.Join(tokens[i+len(companyTokens):], Delimiter))
		if position == "" {
			return UnknownPosition
		}
		return position
	}

	return UnknownPosition
}

func tokensMatch(candidate, company []string) bool {
	for i := range company {
		want := strings.TrimSpace(company[i])
		got := strings.TrimSpace(candidate[i])
		if want == "" {
			return false
		}
		if strings.EqualFold(got, want) || strings.EqualFold(SanitizeRemove(got), SanitizeRemove(want)) {
			continue
		}
		if !strings.EqualFold(StripBaseName(SanitizeRemove(got)), StripBaseName(SanitizeRemove(want))) {
			return false
		}
	}
	return true
}

// ArchivedName is the decoded form of an archived document name
type ArchivedName struct {
	Date     time.Time
	Company  string
	Position string
}

// EncodeArchivedFileName builds "{dd MonthName yyyy HH.mm} - {company} - {position}.pdf"
// with illegal characters replaced.
func EncodeArchivedFileName(date time.Time, company, position string) string {
	name := date.Format(ArchivedDateLayout) + Delimiter + company + Delimiter + position + PDFExt
	return SanitizeReplace(name)
}

// DecodeArchivedFileName parses an archived document name. The company is
// assumed to be a single token; any further tokens belong to the position.
func DecodeArchivedFileName(fileName string) (ArchivedName, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), PDFExt) {
		return ArchivedName{}, &ParseError{Name: fileName, Reason: "not a PDF document"}
	}

	tokens := strings.Split(trimPDFExt(fileName), Delimiter)
	if len(tokens) < 3 {
		return ArchivedName{}, &ParseError{Name: fileName, Reason: "expected date, company and position"}
	}

	date, err := time.ParseInLocation(ArchivedDateLayout, tokens[0], time.Local)
	if err != nil {
		return ArchivedName{}, &ParseError{Name: fileName, Reason: "invalid archive date", Cause: err}
	}

	return ArchivedName{
		Date:     date,
		Company:  tokens[1],
		Position: strings.Join(tokens[2:], Delimiter),
	}, nil
}

func trimPDFExt(fileName string) string {
	if strings.HasSuffix(strings.ToLower(fileName), PDFExt) {
		return fileName[:len(fileName)-len(PDFExt)]
	}
	return fileName
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
