package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scripted world behaviour:
// fixture interaction scripts, spawn tables, event hooks. The world API
// (RegisterWorldAPI) is its primitive for "who is near me".
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine. Scripts are loaded separately via
// LoadScripts after the world API has been registered.
func NewEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// LoadScripts loads all .lua files from the event and fixture
// subdirectories of scriptsDir. Missing directories are skipped.
func (e *Engine) LoadScripts(scriptsDir string) error {
	for _, sub := range []string{"core", "fixture", "event", "ai"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			return fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Run executes a chunk of Lua source on the VM. Used by the GM script
// console and by tests.
func (e *Engine) Run(code string) error {
	return e.vm.DoString(code)
}

// CallEvent invokes a global Lua function by name with an entity handle
// argument, if the function exists. Used for fixture touch/step hooks.
func (e *Engine) CallEvent(fn string, args ...lua.LValue) error {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		return nil
	}
	return e.vm.CallByParam(lua.P{Fn: f, NRet: 0, Protect: true}, args...)
}

// Close shuts the VM down.
func (e *Engine) Close() {
	e.vm.Close()
}
