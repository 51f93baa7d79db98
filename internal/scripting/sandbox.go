// Package scripting provides a sandboxed GopherLua environment for the
// predicates attached to situational modifiers. It has no dependency on game
// domain packages; callers pass a Snapshot of the state a predicate may read.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a single
// predicate may execute when no override is configured.
const DefaultInstructionLimit = 10_000

// strippedGlobals are removed from the base library after it is opened.
var strippedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "print"}

// opBudget is a context whose Done is polled by the VM once per opcode.
// The budget cancels itself when the poll count reaches zero.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newOpBudget(limit int) *opBudget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

// sandbox is a single-use Lua state with only base, table, string and math
// available and an opcode budget.
type sandbox struct {
	L      *lua.LState
	budget *opBudget
}

// newSandbox opens a restricted Lua state.
//
// Precondition: limit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller must call close when done.
func newSandbox(limit int) *sandbox {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	b := newOpBudget(limit)
	L.SetContext(b)
	return &sandbox{L: L, budget: b}
}

func (s *sandbox) close() {
	s.budget.cancel()
	s.L.Close()
}
