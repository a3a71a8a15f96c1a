package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/game/dice"
)

// globalArenaID is the reserved key for scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no arena VM is found.
const globalArenaID = "__global__"

// vm is one loaded LState. An LState is single-threaded, so every call holds mu.
type vm struct {
	mu        sync.Mutex
	L         *lua.LState
	cancel    context.CancelFunc
	instLimit int
}

// Manager owns one sandboxed VM per arena and dispatches hook calls to it.
//
// Manager is safe for concurrent use. Calls into the same arena are serialized;
// different arenas run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	src    dice.Source
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no arenas loaded.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		src:    src,
		logger: logger,
	}
}

// LoadArena creates a sandboxed VM for arenaID, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
// Loading an arena again replaces its VM.
//
// Precondition: arenaID must be non-empty; scriptDir must be a readable directory.
// Postcondition: The arena VM is registered, or an error is returned and the
// previous VM (if any) is kept.
func (m *Manager) LoadArena(arenaID, scriptDir string, instLimit int) error {
	if arenaID == "" {
		return fmt.Errorf("scripting: arena id must not be empty")
	}
	return m.loadInto(arenaID, scriptDir, instLimit)
}

// LoadGlobal loads the shared VM used when an arena has no scripts of its own.
//
// Precondition: scriptDir must be a readable directory.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalArenaID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	cancel()
	L.RemoveContext()

	next := &vm{L: L, cancel: cancel, instLimit: instLimit}
	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = next
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	m.logger.Debug("scripting: loaded scripts",
		zap.String("arena", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancel()
	v.L.Close()
}

// CallHook calls the named Lua global function in arenaID's VM, falling back
// to the global VM. Returns (LNil, nil) if no VM exists or the hook is not
// defined. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(arenaID, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(arenaID, hook, func(*lua.LState) []lua.LValue { return args })
}

// call is CallHook with arguments built on the target VM while its lock is held.
func (m *Manager) call(arenaID, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[arenaID]
	if !ok {
		v = m.vms[globalArenaID]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for arena",
			zap.String("arena", arenaID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	args := build(v.L)
	err := withBudget(v.L, v.instLimit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("arena", arenaID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
//
// Postcondition: CallHook returns LNil for every arena afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.close()
	}
}
