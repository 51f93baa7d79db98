package scripting

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// Snapshot is the read-only view of an actor a predicate sees as the global
// table "actor".
type Snapshot struct {
	Rage        int
	Form        string
	Frenzy      bool
	LostTheWolf bool
	Abilities   map[string]int
	Skills      map[string]int
	Renown      map[string]int
}

// Evaluator compiles and runs boolean Lua predicates such as
//
//	actor.form == "crinos" and actor.rage >= 3
//
// Each evaluation runs in a fresh sandbox so the instruction limit applies
// per call. Compiled predicates are cached by source text.
//
// Evaluator is safe for concurrent use.
type Evaluator struct {
	limit  int
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*lua.FunctionProto
}

// NewEvaluator creates an Evaluator.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
func NewEvaluator(instLimit int, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		limit:  instLimit,
		logger: logger,
		cache:  make(map[string]*lua.FunctionProto),
	}
}

// Compile checks that expr is a valid Lua expression and caches its bytecode.
//
// Postcondition: Returns nil iff a later Eval of expr will not fail to parse.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.proto(expr)
	return err
}

func (e *Evaluator) proto(expr string) (*lua.FunctionProto, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.cache[expr]; ok {
		return p, nil
	}
	src := "return (" + expr + ")"
	chunk, err := parse.Parse(strings.NewReader(src), "predicate")
	if err != nil {
		return nil, fmt.Errorf("scripting: parsing predicate %q: %w", expr, err)
	}
	p, err := lua.Compile(chunk, "predicate")
	if err != nil {
		return nil, fmt.Errorf("scripting: compiling predicate %q: %w", expr, err)
	}
	e.cache[expr] = p
	return p, nil
}

// Eval runs expr against snap and reports its Lua truthiness.
//
// Precondition: expr is a Lua expression (not a statement).
// Postcondition: Returns an error on parse failure, runtime error, or when
// the instruction limit is exceeded.
func (e *Evaluator) Eval(expr string, snap Snapshot) (bool, error) {
	p, err := e.proto(expr)
	if err != nil {
		return false, err
	}

	sb := newSandbox(e.limit)
	defer sb.close()
	L := sb.L

	L.SetGlobal("actor", snapshotTable(L, snap))
	L.Push(L.NewFunctionFromProto(p))
	if err := L.PCall(0, 1, nil); err != nil {
		return false, fmt.Errorf("scripting: evaluating predicate %q: %w", expr, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	ok := lua.LVAsBool(ret)
	e.logger.Debug("predicate evaluated",
		zap.String("expr", expr),
		zap.Bool("result", ok),
	)
	return ok, nil
}

func snapshotTable(L *lua.LState, s Snapshot) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("rage", lua.LNumber(s.Rage))
	t.RawSetString("form", lua.LString(s.Form))
	t.RawSetString("frenzy", lua.LBool(s.Frenzy))
	t.RawSetString("lost_the_wolf", lua.LBool(s.LostTheWolf))
	t.RawSetString("abilities", ratingTable(L, s.Abilities))
	t.RawSetString("skills", ratingTable(L, s.Skills))
	t.RawSetString("renown", ratingTable(L, s.Renown))
	return t
}

// ratingTable returns 0 for unset keys so predicates can compare without nil checks.
func ratingTable(L *lua.LState, m map[string]int) *lua.LTable {
	t := L.NewTable()
	for k, v := range m {
		t.RawSetString(k, lua.LNumber(v))
	}
	meta := L.NewTable()
	meta.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(0))
		return 1
	}))
	L.SetMetatable(t, meta)
	return t
}
