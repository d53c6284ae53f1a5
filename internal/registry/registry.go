// Package registry maps a language name or file extension to the
// syntax.LanguageSupport collaborator that handles it. This engine ships
// a fixed set of language collaborators compiled in, registered by name
// and looked up by name or extension behind a thread-safe map.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oxhq/morphic/internal/syntax"
)

// Registry is a thread-safe name/extension -> syntax.LanguageSupport
// lookup table.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]syntax.LanguageSupport
	byExt  map[string]syntax.LanguageSupport
}

// New returns an empty registry. Languages are registered explicitly via
// Register, the way cmd/morphic wires in providers/golang, providers/python,
// and siblings at startup.
func New() *Registry {
	return &Registry{
		byName: make(map[string]syntax.LanguageSupport),
		byExt:  make(map[string]syntax.LanguageSupport),
	}
}

// Register adds a language collaborator, indexing it by name and by each
// extension it claims.
func (r *Registry) Register(lang syntax.LanguageSupport) error {
	if lang == nil {
		return fmt.Errorf("registry: language cannot be nil")
	}
	name := lang.Name()
	if name == "" {
		return fmt.Errorf("registry: language must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("registry: language %q already registered", name)
	}

	r.byName[name] = lang
	for _, ext := range lang.Extensions() {
		ext = strings.ToLower(ext)
		r.byExt[ext] = lang
	}
	return nil
}

// ByName returns the language collaborator registered under name.
func (r *Registry) ByName(name string) (syntax.LanguageSupport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.byName[name]
	return lang, ok
}

// ByExtension returns the language collaborator claiming ext (with or
// without a leading dot).
func (r *Registry) ByExtension(ext string) (syntax.LanguageSupport, bool) {
	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.byExt[strings.ToLower(ext)]
	return lang, ok
}

// Names lists every registered language name; order is not guaranteed.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
