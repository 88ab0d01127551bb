package narrative

import (
	"regexp"
	"strings"

	"llm-market-analyst/internal/types"
)

// Defaults applied when a field cannot be extracted from the narrative.
const (
	DefaultRationale = "insufficient signal from narrative"
	DefaultRisk      = "generic market risk applies; narrative signal not verified"
)

// The oracle's reply format is observed, not contractually guaranteed, so
// extraction is tolerant label matching rather than schema validation.
var (
	actionRe    = regexp.MustCompile(`(?i)\baction\b[\s*_]*[:\-][\s*_]*([a-z]+)`)
	strengthRe  = regexp.MustCompile(`(?i)\bstrength\b[\s*_]*[:\-][\s*_]*([a-z]+)`)
	rationaleRe = regexp.MustCompile(`(?i)\brationale\b[\s*_]*[:\-][ \t]*(.+)`)
	riskRe      = regexp.MustCompile(`(?i)\brisk\b[\s*_]*[:\-][ \t]*(.+)`)
)

// Parse extracts decision fields from raw narrative text. It is a pure
// function and never fails; the worst case is an Unrecognized outcome.
func Parse(raw string) Outcome {
	out := Outcome{}
	found := 0

	if m := actionRe.FindStringSubmatch(raw); m != nil {
		if a := normalizeAction(m[1]); a != "" {
			out.Action = a
			found++
		}
	}
	if m := strengthRe.FindStringSubmatch(raw); m != nil {
		if s := normalizeStrength(m[1]); s != "" {
			out.Strength = s
			found++
		}
	}
	if m := rationaleRe.FindStringSubmatch(raw); m != nil {
		if r := cleanLine(m[1]); r != "" {
			out.Rationale = r
			found++
		}
	}
	if m := riskRe.FindStringSubmatch(raw); m != nil {
		if r := cleanLine(m[1]); r != "" {
			out.Risk = r
			found++
		}
	}

	for _, f := range []struct{ name, val string }{
		{"action", out.Action},
		{"strength", out.Strength},
		{"rationale", out.Rationale},
		{"risk", out.Risk},
	} {
		if f.val == "" {
			out.Missing = append(out.Missing, f.name)
		}
	}

	switch {
	case found == 0:
		out.Kind = Unrecognized
	case len(out.Missing) == 0:
		out.Kind = Recognized
	default:
		out.Kind = Partial
	}

	return out
}

// Decision maps an outcome onto a Decision for one instrument, filling
// defaults for missing fields. Confidence is derived only from the
// (strength, action) pair so it stays reproducible and bounded even when
// extraction is imperfect.
func Decision(symbol string, quote types.QuoteSnapshot, out Outcome) types.Decision {
	action := out.Action
	if action == "" {
		action = types.ActionHold
	}
	strength := out.Strength
	if strength == "" {
		strength = types.StrengthWeak
	}
	rationale := out.Rationale
	if rationale == "" {
		rationale = DefaultRationale
	}
	risk := out.Risk
	if risk == "" {
		risk = DefaultRisk
	}

	return types.Decision{
		Symbol:     symbol,
		Action:     action,
		Strength:   strength,
		Confidence: confidence(strength, action),
		Rationale:  rationale,
		Risk:       risk,
		Price:      quote.Price,
		ChangePct:  quote.ChangePct,
		Volume:     quote.Volume,
		Timestamp:  quote.FetchedAt,
	}
}

// confidence is a fixed lookup over the (strength, action) pair.
func confidence(strength, action string) float64 {
	switch strength {
	case types.StrengthStrong:
		return 0.9
	case types.StrengthMedium:
		if action == types.ActionHold {
			return 0.6
		}
		return 0.7
	default:
		if action == types.ActionHold {
			return 0.4
		}
		return 0.5
	}
}

func normalizeAction(word string) string {
	switch strings.ToUpper(strings.TrimSpace(word)) {
	case "BUY", "ACCUMULATE", "LONG":
		return types.ActionBuy
	case "SELL", "EXIT", "SHORT":
		return types.ActionSell
	case "HOLD", "WAIT", "NEUTRAL":
		return types.ActionHold
	default:
		return ""
	}
}

func normalizeStrength(word string) string {
	switch strings.ToUpper(strings.TrimSpace(word)) {
	case "STRONG", "HIGH":
		return types.StrengthStrong
	case "MEDIUM", "MODERATE", "MID":
		return types.StrengthMedium
	case "WEAK", "LOW":
		return types.StrengthWeak
	default:
		return ""
	}
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
