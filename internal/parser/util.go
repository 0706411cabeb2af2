package parser

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Common date patterns found in statements.
var (
	// DD/MM/YYYY or DD/MM/YY
	datePatternSlash = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	// DD Mon YYYY (e.g., 15 Jan 2024), case-insensitive
	datePatternText = regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`)
	// DD-Mon-YYYY or DD-Mon-YY
	datePatternDash = regexp.MustCompile(`(?i)\b(\d{1,2}-(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*-\d{2,4})\b`)
)

// amountText is the fixed decimal format: digits with optional thousands
// separators and exactly two fraction digits.
const amountText = `[\d,]+\.\d{2}`

var (
	strictAmountPattern = regexp.MustCompile(`^\d[\d,]*\.\d{2}$`)
	amountTokenPattern  = regexp.MustCompile(amountText)
)

// ErrMalformedAmount is returned when a numeric field does not match the
// fixed decimal format.
var ErrMalformedAmount = errors.New("malformed amount")

// parseAmount converts a string like "1,234.56" or "£1,234.56" to a
// non-negative decimal. Anything else is ErrMalformedAmount.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	// Remove currency symbols and whitespace (including Unicode variants)
	for _, sym := range []string{"£", "$", "€", "₹", "\u00A0", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}
	if !strictAmountPattern.MatchString(s) {
		return decimal.Zero, ErrMalformedAmount
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

// ParseAmount is the exported form of parseAmount for other packages.
func ParseAmount(s string) (decimal.Decimal, error) {
	return parseAmount(s)
}

// parseNullAmount returns an invalid NullDecimal when s does not parse.
func parseNullAmount(s string) decimal.NullDecimal {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// startsWithDate checks if a line begins with a date pattern.
func startsWithDate(line string) bool {
	return extractDate(line) != ""
}

// extractDate returns the date found at the very start of a line, or "".
func extractDate(line string) string {
	line = strings.TrimSpace(line)
	for _, pat := range []*regexp.Regexp{datePatternSlash, datePatternText, datePatternDash} {
		if loc := pat.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return line[loc[0]:loc[1]]
		}
	}
	return ""
}

var dateLayouts = []string{
	"2/1/06",
	"2/1/2006",
	"2 Jan 2006",
	"2 Jan 06",
	"2 January 2006",
	"2 January 06",
	"2-Jan-2006",
	"2-Jan-06",
}

// ParseDate converts a day-first statement date to a time. It returns nil
// when no known layout applies.
func ParseDate(raw string) *time.Time {
	raw = strings.Join(strings.Fields(raw), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// normalizeLine cleans up common PDF extraction artifacts.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u200B", "")
	line = strings.ReplaceAll(line, "\u00A0", " ")
	line = strings.ReplaceAll(line, "\t", " ")
	return strings.TrimSpace(line)
}

// SplitLines flattens pages into stripped, non-empty lines.
func SplitLines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			if line := normalizeLine(raw); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// creditTokens mark a fixed-format description as money in.
var creditTokens = []string{"NEFT CR", "IMPS", "UPI", "CREDIT", "REFUND", "INTEREST"}

// debitPhrases contain a credit token but mark money out.
var debitPhrases = []string{"CREDIT CARD", "UPI/DR", "UPI DR", "IMPS/DR", "IMPS DR"}

// CreditTokens returns a copy of the fixed-format credit vocabulary.
func CreditTokens() []string {
	return append([]string(nil), creditTokens...)
}

// DebitPhrases returns a copy of the phrases that override a credit token.
func DebitPhrases() []string {
	return append([]string(nil), debitPhrases...)
}

// MatchDirection finds the longest credit or debit token contained in desc,
// case-insensitively. Equal lengths go to credit.
func MatchDirection(desc string, credit, debit []string) (models.Direction, bool) {
	upper := strings.ToUpper(desc)
	var dir models.Direction
	best := 0
	for _, tok := range credit {
		if len(tok) > best && strings.Contains(upper, tok) {
			dir, best = models.Credit, len(tok)
		}
	}
	for _, tok := range debit {
		if len(tok) > best && strings.Contains(upper, tok) {
			dir, best = models.Debit, len(tok)
		}
	}
	return dir, best > 0
}

func hasCreditToken(desc string) bool {
	dir, ok := MatchDirection(desc, creditTokens, debitPhrases)
	return ok && dir == models.Credit
}

// extractOpeningBalance looks for opening/brought-forward balance lines
// and returns the balance amount.
func extractOpeningBalance(line string) (decimal.Decimal, bool) {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "opening balance") &&
		!strings.Contains(lower, "brought forward") {
		return decimal.Zero, false
	}

	// Find the last amount on the line
	amounts := amountTokenPattern.FindAllString(line, -1)
	if len(amounts) == 0 {
		return decimal.Zero, false
	}
	bal, err := parseAmount(amounts[len(amounts)-1])
	if err != nil {
		return decimal.Zero, false
	}
	return bal, true
}
