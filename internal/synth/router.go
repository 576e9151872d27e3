package synth

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/slidecast/slidecast-go/internal/models"
)

// ProviderExhaustedError means every candidate in the fallback chain
// failed for one request. It names everything that was tried and
// everything currently disabled so the operator can see the whole
// picture from a single log line.
type ProviderExhaustedError struct {
	Attempted []string
	Disabled  []string
}

func (e *ProviderExhaustedError) Error() string {
	return fmt.Sprintf("all synthesis providers failed (attempted: %s; disabled: %s)",
		strings.Join(e.Attempted, ", "), strings.Join(e.Disabled, ", "))
}

// Router tries an ordered chain of synthesis providers, disabling
// failures and self-healing providers on success. Disabling is sticky:
// there is no time-based re-enable, only a later direct success or an
// operator action. That keeps a consistently broken provider from
// dragging every request through its timeout.
type Router struct {
	registry  *Registry
	preferred string // default preferred provider, may be ""
}

// NewRouter creates a router over the given registry. preferred is the
// default preferred provider applied when a request names none.
func NewRouter(registry *Registry, preferred string) *Router {
	return &Router{registry: registry, preferred: preferred}
}

// Registry exposes the router's provider registry for operational
// controls and listing.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Synthesize renders text through the first healthy provider in the
// chain. preferredProvider overrides the router default when set.
func (r *Router) Synthesize(ctx context.Context, req models.SynthesisRequest, preferredProvider string) (*models.AudioResult, error) {
	preferred := r.effectivePreferred(preferredProvider)

	var attempted []string
	for i, p := range r.registry.candidates(preferred) {
		attempted = append(attempted, p.Name())
		result, err := p.Synthesize(ctx, req)
		if err != nil {
			log.Printf("Synthesis provider %s failed: %v", p.Name(), err)
			r.registry.Disable(p.Name(), err.Error())
			continue
		}
		// A direct success heals an earlier sticky disable.
		r.registry.Enable(p.Name())
		result.ProviderUsed = p.Name()
		result.FallbackUsed = fallbackUsed(preferred, p.Name(), i)
		return result, nil
	}
	return nil, &ProviderExhaustedError{Attempted: attempted, Disabled: r.registry.disabledNames()}
}

// SynthesizeMarkup renders markup through the chain. Providers without
// markup support receive a plain-text extraction and the result is
// tagged accordingly.
func (r *Router) SynthesizeMarkup(ctx context.Context, markup, format, preferredProvider string) (*models.AudioResult, error) {
	preferred := r.effectivePreferred(preferredProvider)

	var attempted []string
	for i, p := range r.registry.candidates(preferred) {
		attempted = append(attempted, p.Name())

		var result *models.AudioResult
		var err error
		ms, supportsMarkup := p.(MarkupSynthesizer)
		if supportsMarkup {
			result, err = ms.SynthesizeMarkup(ctx, markup, format)
		} else {
			result, err = p.Synthesize(ctx, models.SynthesisRequest{
				Text:   ExtractPlainText(markup),
				Format: format,
			})
		}
		if err != nil {
			log.Printf("Synthesis provider %s failed: %v", p.Name(), err)
			r.registry.Disable(p.Name(), err.Error())
			continue
		}
		r.registry.Enable(p.Name())
		result.ProviderUsed = p.Name()
		result.FallbackUsed = fallbackUsed(preferred, p.Name(), i)
		result.SSMLSupported = supportsMarkup
		result.SSMLFallbackUsed = !supportsMarkup
		return result, nil
	}
	return nil, &ProviderExhaustedError{Attempted: attempted, Disabled: r.registry.disabledNames()}
}

// fallbackUsed reports whether the provider that served a request was
// anything other than the caller's first choice. With a preferred
// provider that is a name comparison; without one the first candidate
// in chain order is the first choice.
func fallbackUsed(preferred, used string, candidateIndex int) bool {
	if preferred == "" {
		return candidateIndex > 0
	}
	return used != preferred
}

func (r *Router) effectivePreferred(override string) string {
	if override != "" {
		return override
	}
	return r.preferred
}

var markupTagRe = regexp.MustCompile(`<[^>]*>`)

// ExtractPlainText strips markup tags and collapses the remaining
// whitespace, for providers that only speak plain text.
func ExtractPlainText(markup string) string {
	text := markupTagRe.ReplaceAllString(markup, " ")
	return strings.Join(strings.Fields(text), " ")
}
