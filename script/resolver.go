package script

import "path/filepath"

// Resolver adapts a Loader into a walker.Resolver (the interface is
// defined over *Script, so Resolver satisfies it without importing
// walker). Every Exec/Source target is resolved relative to the
// directory of the script passed to NewResolver (spec.md §6 "ScriptSource:
// resolve(baseDir, relPath) -> path") — scripts referenced by <exec>/
// <source> are expected to live under the root script's own tree, the
// same assumption the loader's absolute-path cache already makes.
type Resolver struct {
	loader  *Loader
	source  Source
	baseDir string
}

// NewResolver creates a Resolver rooted at the directory containing
// rootScript.
func NewResolver(loader *Loader, source Source, rootScript string) *Resolver {
	return &Resolver{loader: loader, source: source, baseDir: filepath.Dir(rootScript)}
}

// ResolveScript implements walker.Resolver.
func (r *Resolver) ResolveScript(target string) (*Script, error) {
	path, err := r.source.Resolve(r.baseDir, target)
	if err != nil {
		return nil, err
	}
	return r.loader.Load(path)
}
