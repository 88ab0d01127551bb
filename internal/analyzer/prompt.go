package analyzer

import (
	"fmt"
	"strings"

	"llm-market-analyst/internal/types"
)

// BuildPrompt renders one instrument's analysis request. The labelled-line
// reply format here must stay in step with what the narrative parser
// extracts.
func BuildPrompt(ins types.Instrument, q types.QuoteSnapshot, mc types.MarketContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Instrument: %s", ins.Symbol)
	if ins.Name != "" {
		fmt.Fprintf(&b, " (%s)", ins.Name)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Last price: %.2f\n", q.Price)
	fmt.Fprintf(&b, "Day change: %+.2f%%\n", q.ChangePct)
	if q.Volume > 0 {
		fmt.Fprintf(&b, "Volume: %d\n", q.Volume)
	}

	b.WriteString("\nMarket context: ")
	b.WriteString(mc.Summary)
	b.WriteString("\n")
	for _, h := range mc.Headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	b.WriteString("\nGive a trading view for this instrument only. Reply with exactly these labelled lines:\n")
	b.WriteString("Action: buy, sell or hold\n")
	b.WriteString("Strength: strong, medium or weak\n")
	b.WriteString("Rationale: one sentence\n")
	b.WriteString("Risk: one sentence\n")

	return b.String()
}
