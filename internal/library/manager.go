// Package library keeps the parsed files of a project in named VHDL
// libraries.
package library

import (
	"context"
	stderrors "errors"
	"runtime"
	"strings"
	"sync"

	"github.com/tidwall/btree"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"hdlio"
	"hdlio/internal/ast"
	"hdlio/internal/config"
	"hdlio/internal/errors"
)

var log = commonlog.GetLogger("hdlio.library")

// Work is the library files are loaded into when none is named.
const Work = "work"

type Options struct {
	Standard hdlio.Standard
	Policy   hdlio.Policy
	// Jobs bounds the parallelism of LoadAll. Zero means GOMAXPROCS.
	Jobs int
}

// Manager is safe for concurrent use.
type Manager struct {
	opts Options

	mu   sync.RWMutex
	libs btree.Map[string, *library] // keyed by lower-case name
}

type library struct {
	name  string
	files btree.Map[string, *hdlio.Result] // keyed by source name
}

func New(opts Options) *Manager {
	if opts.Standard == 0 {
		opts.Standard = ast.DefaultStandard
	}
	return &Manager{opts: opts}
}

// Load parses the file at path into library lib, replacing whatever an
// earlier load of the same path left there. Errors are those of
// hdlio.ParseFile; a failed load leaves the library unchanged.
func (m *Manager) Load(path, lib string) (*hdlio.Result, error) {
	lib = libraryName(lib)
	res, err := hdlio.ParseFile(path, hdlio.ModeAST, m.parseOptions(lib)...)
	if err != nil {
		return nil, err
	}
	m.store(path, lib, res)
	return res, nil
}

// LoadSource is Load for source held in memory, such as an editor buffer.
func (m *Manager) LoadSource(name, src, lib string) (*hdlio.Result, error) {
	lib = libraryName(lib)
	res, err := hdlio.ParseSource(name, src, hdlio.ModeAST, m.parseOptions(lib)...)
	if err != nil {
		return nil, err
	}
	m.store(name, lib, res)
	return res, nil
}

func (m *Manager) parseOptions(lib string) []hdlio.Option {
	return []hdlio.Option{
		hdlio.WithLibrary(lib),
		hdlio.WithStandard(m.opts.Standard),
		hdlio.WithPolicy(m.opts.Policy),
	}
}

func (m *Manager) store(name, lib string, res *hdlio.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(lib)
	l, ok := m.libs.Get(key)
	if !ok {
		l = &library{name: lib}
		m.libs.Set(key, l)
	}
	l.files.Set(name, res)
	log.Debugf("loaded %s into %s: %d units, %d diagnostics", name, l.name, len(res.Module.Units), len(res.Diagnostics))
}

// Remove drops a file from a library. It reports whether the file was
// loaded. A library left empty is removed too.
func (m *Manager) Remove(name, lib string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(libraryName(lib))
	l, ok := m.libs.Get(key)
	if !ok {
		return false
	}
	if _, ok := l.files.Delete(name); !ok {
		return false
	}
	if l.files.Len() == 0 {
		m.libs.Delete(key)
	}
	return true
}

// LoadAll loads every file of libs, at most Options.Jobs at a time. A file
// that fails does not stop the others; all failures are joined into the
// returned error. Cancelling ctx stops files that have not started yet.
func (m *Manager) LoadAll(ctx context.Context, libs []config.ResolvedLibrary) error {
	g, ctx := errgroup.WithContext(ctx)
	jobs := m.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, lib := range libs {
		for _, file := range lib.Files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := m.Load(file, lib.Name); err != nil {
					log.Warningf("%s: %v", file, err)
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return stderrors.Join(errs...)
}

// Libraries returns the names of the loaded libraries in sorted order.
func (m *Manager) Libraries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	m.libs.Scan(func(_ string, l *library) bool {
		names = append(names, l.name)
		return true
	})
	return names
}

// Units lists the design units of lib, ordered by source name and then by
// position.
func (m *Manager) Units(lib string) ([]ast.DesignUnit, error) {
	var units []ast.DesignUnit
	err := m.scan(lib, func(res *hdlio.Result) {
		units = append(units, res.Module.Units...)
	})
	return units, err
}

// Modules returns the reduced files of lib ordered by source name.
func (m *Manager) Modules(lib string) ([]*ast.Module, error) {
	var modules []*ast.Module
	err := m.scan(lib, func(res *hdlio.Result) {
		modules = append(modules, res.Module)
	})
	return modules, err
}

// Entity finds an entity of lib by name, ignoring case.
func (m *Manager) Entity(lib, name string) (*ast.Entity, error) {
	var (
		found *ast.Entity
		names []string
	)
	err := m.scan(lib, func(res *hdlio.Result) {
		if found != nil {
			return
		}
		if e, ok := res.Module.Entity(name); ok {
			found = e
			return
		}
		for _, e := range res.Module.Entities {
			names = append(names, e.Name)
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errors.UnknownEntity(name, ast.Position{}, names)
	}
	return found, nil
}

// Diagnostics returns the warnings of every loaded file, ordered by library
// and source name.
func (m *Manager) Diagnostics() []errors.CompilerError {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []errors.CompilerError
	m.libs.Scan(func(_ string, l *library) bool {
		l.files.Scan(func(_ string, res *hdlio.Result) bool {
			out = append(out, res.Diagnostics...)
			return true
		})
		return true
	})
	return out
}

func (m *Manager) scan(lib string, fn func(*hdlio.Result)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.libs.Get(strings.ToLower(libraryName(lib)))
	if !ok {
		var names []string
		m.libs.Scan(func(_ string, l *library) bool {
			names = append(names, l.name)
			return true
		})
		return errors.UnknownLibrary(lib, names)
	}
	l.files.Scan(func(_ string, res *hdlio.Result) bool {
		fn(res)
		return true
	})
	return nil
}

func libraryName(lib string) string {
	if lib == "" {
		return Work
	}
	return lib
}
