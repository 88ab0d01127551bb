package universe

import (
	"llm-market-analyst/internal/types"
)

// Universe is the static table of analyzable instruments. Immutable after
// construction.
type Universe struct {
	instruments []types.Instrument
	bySymbol    map[string]types.Instrument
}

// New builds a universe from a config instrument list, dropping duplicate
// symbols (first occurrence wins).
func New(instruments []types.Instrument) *Universe {
	u := &Universe{
		instruments: make([]types.Instrument, 0, len(instruments)),
		bySymbol:    make(map[string]types.Instrument, len(instruments)),
	}
	for _, ins := range instruments {
		if ins.Symbol == "" {
			continue
		}
		if _, seen := u.bySymbol[ins.Symbol]; seen {
			continue
		}
		u.bySymbol[ins.Symbol] = ins
		u.instruments = append(u.instruments, ins)
	}
	return u
}

// Symbols returns all instrument symbols in declaration order.
func (u *Universe) Symbols() []string {
	out := make([]string, len(u.instruments))
	for i, ins := range u.instruments {
		out[i] = ins.Symbol
	}
	return out
}

// Lookup returns the instrument for a symbol.
func (u *Universe) Lookup(symbol string) (types.Instrument, bool) {
	ins, ok := u.bySymbol[symbol]
	return ins, ok
}

// Len returns the number of instruments.
func (u *Universe) Len() int { return len(u.instruments) }

// Dedupe removes duplicate symbols from a list, preserving first-occurrence
// order.
func Dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
