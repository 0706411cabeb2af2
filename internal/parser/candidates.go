package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// numericLike matches tokens that look like a number, well-formed or not.
var numericLike = regexp.MustCompile(`^[£$€₹]?[\d,.]*\d[\d,.]*$`)

// ClassifyLines recognizes candidate transaction lines for the
// delta-inferred dialect: a date prefix followed by free text and a tail of
// up to two numeric tokens, read as (amount, running balance). Numeric
// tokens that do not match the fixed decimal format leave the field null.
func ClassifyLines(pages []models.Page) []models.CandidateLine {
	var out []models.CandidateLine
	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			line := normalizeLine(raw)
			if c, ok := classifyLine(line); ok {
				c.Page = page.Number
				out = append(out, c)
			}
		}
	}
	return out
}

func classifyLine(line string) (models.CandidateLine, bool) {
	date := extractDate(line)
	if date == "" {
		return models.CandidateLine{}, false
	}

	c := models.CandidateLine{Text: line, RawDate: date}
	fields := strings.Fields(strings.TrimSpace(line[len(date):]))

	// Peel numeric tokens off the right: balance first, then amount.
	tail := 0
	for tail < 2 && tail < len(fields) && numericLike.MatchString(fields[len(fields)-1-tail]) {
		tail++
	}
	switch tail {
	case 2:
		c.Amount = parseNullAmount(fields[len(fields)-2])
		c.Balance = parseNullAmount(fields[len(fields)-1])
	case 1:
		c.Balance = parseNullAmount(fields[len(fields)-1])
	}
	c.Description = strings.Join(fields[:len(fields)-tail], " ")
	return c, true
}

// CompleteLines keeps only candidates whose amount and balance both parsed.
// Everything else is header or footer noise that happened to start with a
// date.
func CompleteLines(lines []models.CandidateLine) []models.CandidateLine {
	var out []models.CandidateLine
	for _, c := range lines {
		if c.Complete() {
			out = append(out, c)
		}
	}
	return out
}
