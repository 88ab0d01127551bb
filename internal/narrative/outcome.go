package narrative

// Kind classifies how much of the narrative could be extracted.
type Kind int

const (
	// Unrecognized means no expected field was found in the text.
	Unrecognized Kind = iota
	// Partial means some fields were found; Missing lists the rest.
	Partial
	// Recognized means every expected field was found.
	Recognized
)

func (k Kind) String() string {
	switch k {
	case Recognized:
		return "recognized"
	case Partial:
		return "partial"
	default:
		return "unrecognized"
	}
}

// Outcome is the tagged result of extracting structure from narrative text.
// Field values are normalized; absent fields are empty and named in Missing.
// The pattern-matching strategy stays isolated behind this type so it can be
// swapped without touching callers.
type Outcome struct {
	Kind      Kind
	Action    string
	Strength  string
	Rationale string
	Risk      string
	Missing   []string
}
