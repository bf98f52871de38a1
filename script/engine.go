// Package script runs step sequences written in Lua.
//
// A Lua step is a global function taking a table of numeric variables and
// returning a wait in milliseconds and the name of the next step:
//
//	function blink(v)
//	  v.count = (v.count or 0) + 1
//	  if v.count < 3 then return 100, "blink" end
//	  return 0, nil
//	end
//
// Returning nil as the next step finishes the sequence after the wait.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phanxgames/sprig"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNoFunction is returned by a step whose Lua function is not defined.
var ErrNoFunction = errors.New("script: function not defined")

// Vars holds the numeric variables a Lua step reads and writes. Changes made
// by the script are copied back after every step.
type Vars map[string]float64

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only: steps run on the frame loop.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM with the standard libraries opened.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// LoadString runs src, typically to define step functions.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

// LoadFile runs the Lua file at path.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file in dir. A missing directory is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Step returns a step that calls the global Lua function name. The function
// is looked up when the step runs, so scripts may be loaded afterwards.
func (e *Engine) Step(name string) sprig.Step[Vars] {
	return func(vars Vars) (sprig.Yield[Vars], error) {
		return e.call(name, vars)
	}
}

// Animation returns a sequence starting at the Lua function name.
func (e *Engine) Animation(name string) *sprig.Animation[Vars] {
	return sprig.NewAnimation(e.Step(name))
}

func (e *Engine) call(name string, vars Vars) (sprig.Yield[Vars], error) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return sprig.Yield[Vars]{}, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}

	t := e.vm.NewTable()
	for k, v := range vars {
		t.RawSetString(k, lua.LNumber(v))
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua step error", zap.String("step", name), zap.Error(err))
		return sprig.Yield[Vars]{}, fmt.Errorf("step %s: %w", name, err)
	}
	wait := e.vm.Get(-2)
	next := e.vm.Get(-1)
	e.vm.Pop(2)

	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		if num, ok := v.(lua.LNumber); ok {
			vars[string(key)] = float64(num)
		}
	})

	var y sprig.Yield[Vars]
	switch w := wait.(type) {
	case lua.LNumber:
		if w < 0 {
			return y, fmt.Errorf("step %s: negative wait %v", name, float64(w))
		}
		y.Wait = time.Duration(float64(w) * float64(time.Millisecond))
	case *lua.LNilType:
	default:
		return y, fmt.Errorf("step %s: wait must be a number, got %s", name, wait.Type())
	}
	switch nx := next.(type) {
	case lua.LString:
		if nx != "" {
			y.Next = e.Step(string(nx))
		}
	case *lua.LNilType:
	default:
		return y, fmt.Errorf("step %s: next must be a function name, got %s", name, next.Type())
	}
	return y, nil
}
