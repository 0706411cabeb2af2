package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// deltaMarkers are structural markers of the layout that prints only an
// amount and a running balance, with no direction column.
var deltaMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)closing\s+bal(?:ance)?\b`),
	regexp.MustCompile(`(?i)statement\s+summary`),
	regexp.MustCompile(`(?i)withdrawal\s+am(?:oun)?t`),
}

var (
	debitsToken  = regexp.MustCompile(`(?i)\bdebits\b`)
	creditsToken = regexp.MustCompile(`(?i)\bcredits\b`)
)

// Route decides which extraction strategy applies to a document's text.
// It is a heuristic, not a format sniffer: anything unrecognized falls
// through to fixed-format extraction.
func Route(text string) models.ExtractionPath {
	if marker := DeltaMarker(text); marker != "" {
		return models.PathDelta
	}
	return models.PathFixed
}

// DeltaMarker returns the first delta-dialect marker found in text, or "".
func DeltaMarker(text string) string {
	for _, re := range deltaMarkers {
		if m := re.FindString(text); m != "" {
			return strings.ToLower(m)
		}
	}
	if debitsToken.MatchString(text) && creditsToken.MatchString(text) {
		return "debits+credits"
	}
	return ""
}
