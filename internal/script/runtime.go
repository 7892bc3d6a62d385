package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
)

// Errors returned by the runtime.
var (
	// ErrRuntimeClosed indicates use after Close.
	ErrRuntimeClosed = errors.New("script runtime closed")
)

// Runtime hosts one Lua state bound to one editor core. It is not safe
// for concurrent use.
type Runtime struct {
	state  *lua.LState
	doc    *section.Document
	ctrl   *cursor.Controller
	eng    *ops.Engine
	closed bool

	// changeHooks are Lua callbacks registered via ink.on_change.
	changeHooks []*lua.LFunction
}

// NewRuntime creates a runtime, opens the Lua state, and registers the
// ink module.
func NewRuntime(doc *section.Document, ctrl *cursor.Controller, eng *ops.Engine) *Runtime {
	r := &Runtime{
		state: lua.NewState(),
		doc:   doc,
		ctrl:  ctrl,
		eng:   eng,
	}
	newInkModule(r).register(r.state)
	return r
}

// Run executes a Lua source snippet.
func (r *Runtime) Run(source string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	if err := r.state.DoString(source); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// RunFile executes a Lua script from disk.
func (r *Runtime) RunFile(path string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// FireChange invokes every registered on_change callback. The pipeline's
// change listener calls this after each applied mutation. Callback
// errors are collected, not fatal.
func (r *Runtime) FireChange() error {
	if r.closed {
		return ErrRuntimeClosed
	}
	var errs []error
	for _, fn := range r.changeHooks {
		err := r.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("on_change hook: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close shuts the Lua state down. The runtime is unusable afterwards.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.changeHooks = nil
	r.state.Close()
}
