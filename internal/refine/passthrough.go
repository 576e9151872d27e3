package refine

import (
	"context"

	"github.com/slidecast/slidecast-go/internal/util"
)

// Passthrough is a refinement engine that only normalizes whitespace.
// It keeps deployments functional before a real model integration is
// wired in, and it is the default engine in dev setups.
type Passthrough struct{}

// NewPassthrough returns the no-op refinement engine.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

func (p *Passthrough) Refine(_ context.Context, text string, _ Options) (string, error) {
	return util.CollapseWhitespace(text), nil
}
