package interfaces

import "context"

// Oracle turns a composed prompt into unstructured narrative text. Failure and
// timeout are normal outcomes the caller must absorb.
type Oracle interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}
