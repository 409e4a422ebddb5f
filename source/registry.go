package source

import (
	"context"
	"sync"

	"github.com/luevano/libyomu/logger"
)

// Registry holds the loaded source adapters, a flat map from source
// id to adapter instance. Registration is a one-time process-lifetime
// operation; lookups never trigger network I/O.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	logger  *logger.Logger
}

// NewRegistry constructs an empty Registry.
//
// A nil logger will create a new one.
func NewRegistry(l *logger.Logger) *Registry {
	if l == nil {
		l = logger.NewLogger()
	}
	return &Registry{
		sources: map[string]Source{},
		logger:  l,
	}
}

// Register validates and loads each loader, isolating failures: one
// broken adapter is logged and skipped, it never prevents the others
// from registering. Returns the ids that registered successfully.
func (r *Registry) Register(ctx context.Context, loaders ...Loader) []string {
	var registered []string
	for _, loader := range loaders {
		id, err := r.register(ctx, loader)
		if err != nil {
			r.logger.Log("failed to register source %q: %s", id, err)
			continue
		}
		registered = append(registered, id)
	}
	return registered
}

func (r *Registry) register(ctx context.Context, loader Loader) (id string, err error) {
	// a panicking loader must not take the registry down with it;
	// Info() itself may panic, so the id is captured in here too
	defer func() {
		if p := recover(); p != nil {
			err = Error("loader panicked")
		}
	}()

	info := loader.Info()
	id = info.ID
	if err := info.Validate(); err != nil {
		return id, err
	}

	r.mu.RLock()
	_, exists := r.sources[info.ID]
	r.mu.RUnlock()
	if exists {
		return id, Error("source id already registered: " + info.ID)
	}

	src, err := loader.Load(ctx)
	if err != nil {
		return id, err
	}

	sourceLogger := logger.NewLogger()
	sourceLogger.SetPrefix(info.ID)
	sourceLogger.SetOutput(r.logger.Writer())
	src.SetLogger(sourceLogger)

	r.mu.Lock()
	r.sources[info.ID] = src
	r.mu.Unlock()

	r.logger.Log("registered source %q (%s)", info.ID, info.Version)
	return id, nil
}

// Get returns the source registered under id.
//
// Fails closed: a false return is a fatal precondition for any
// operation requiring that source, not something to retry.
func (r *Registry) Get(id string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[id]
	return src, ok
}

// Sources returns all registered sources.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		sources = append(sources, src)
	}
	return sources
}
