package synth

import (
	"fmt"
	"sync"
	"time"

	"github.com/slidecast/slidecast-go/internal/models"
)

type disabledEntry struct {
	reason      string
	lastFailure time.Time
}

// Registry holds the providers one router routes over, in a
// deterministic registration order, together with their disabled
// state. Each router owns its own Registry value so multiple fallback
// policies can coexist in one process.
type Registry struct {
	mu        sync.Mutex
	providers map[string]Provider
	order     []string
	disabled  map[string]disabledEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		disabled:  make(map[string]disabledEntry),
	}
}

// Register adds a provider. Registration order defines the fallback
// chain order. Registering the same name twice is a developer error
// during setup.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := p.Name()
	if _, exists := r.providers[name]; exists {
		panic(fmt.Sprintf("synthesis provider %q is already registered", name))
	}
	r.providers[name] = p
	r.order = append(r.order, name)
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[name]
	return p, ok
}

// Disable marks a provider unavailable until re-enabled by an operator
// or healed by a successful retry.
func (r *Registry) Disable(name, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return
	}
	r.disabled[name] = disabledEntry{reason: reason, lastFailure: time.Now()}
}

// Enable clears a provider's disabled flag.
func (r *Registry) Enable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disabled, name)
}

// IsAvailable reports whether the provider exists and is not disabled.
func (r *Registry) IsAvailable(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return false
	}
	_, off := r.disabled[name]
	return !off
}

// All lists every provider's registry entry in chain order.
func (r *Registry) All() []models.ProviderInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]models.ProviderInfo, 0, len(r.order))
	for _, name := range r.order {
		info := models.ProviderInfo{Name: name, Available: true}
		if d, off := r.disabled[name]; off {
			info.Available = false
			info.DisabledReason = d.reason
			lf := d.lastFailure
			info.LastFailureTime = &lf
		}
		infos = append(infos, info)
	}
	return infos
}

// candidates builds the try order for one synthesis attempt: the
// preferred provider first when set and healthy, then the chain in
// registration order, excluding the preferred and the disabled.
func (r *Registry) candidates(preferred string) []Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []Provider
	if preferred != "" {
		if p, ok := r.providers[preferred]; ok {
			if _, off := r.disabled[preferred]; !off {
				list = append(list, p)
			}
		}
	}
	for _, name := range r.order {
		if name == preferred {
			continue
		}
		if _, off := r.disabled[name]; off {
			continue
		}
		list = append(list, r.providers[name])
	}
	return list
}

// disabledNames lists currently disabled providers in chain order.
func (r *Registry) disabledNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, name := range r.order {
		if _, off := r.disabled[name]; off {
			names = append(names, name)
		}
	}
	return names
}
