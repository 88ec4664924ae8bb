package symtab

import (
	"fmt"

	"github.com/reardan/w2/stack"
)

// ScopeKind tags what a Scope was opened for.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeInner
)

// Scope is a single name->symbol mapping, tagged with the kind of
// construct that opened it.
type Scope struct {
	Kind  ScopeKind
	table map[string]Symbol
}

func newScope(kind ScopeKind) *Scope {
	return &Scope{Kind: kind, table: make(map[string]Symbol)}
}

// SymbolTable is a stack of scopes: global at the bottom, with
// module/function/inner scopes pushed and popped as the parser
// descends into and out of them.
type SymbolTable struct {
	scopes *stack.Stack[*Scope]
}

// New returns a SymbolTable with its global scope already pushed.
func New() *SymbolTable {
	st := &SymbolTable{scopes: stack.New[*Scope]()}
	st.PushScope(ScopeGlobal)
	return st
}

// PushScope opens a new, empty scope of the given kind.
func (st *SymbolTable) PushScope(kind ScopeKind) *Scope {
	s := newScope(kind)
	st.scopes.Push(s)
	return s
}

// PopScope discards the innermost scope and returns it.
func (st *SymbolTable) PopScope() *Scope {
	s, err := st.scopes.Pop()
	if err != nil {
		panic("symtab: PopScope called with no scope on the stack")
	}
	return s
}

// Depth returns the number of scopes currently on the stack, useful
// for truncating back to a saved depth on function exit.
func (st *SymbolTable) Depth() int {
	return st.scopes.Len()
}

// TruncateTo drops scopes until Depth() == depth. It is the
// multi-pop equivalent of calling PopScope() repeatedly.
func (st *SymbolTable) TruncateTo(depth int) {
	st.scopes.Truncate(depth)
}

// Declare adds symbol to the innermost scope. It is an error to
// declare a name that is already resolvable anywhere on the current
// scope stack - shadowing is not permitted.
func (st *SymbolTable) Declare(sym Symbol) error {
	if existing := st.Lookup(sym.Name()); existing != nil {
		return fmt.Errorf(`variable "%s" was previously declared`, sym.Name())
	}

	scopes := st.scopes.Values()
	innermost := scopes[len(scopes)-1]
	innermost.table[sym.Name()] = sym
	return nil
}

// Lookup walks the scope stack from innermost to outermost, returning
// the first symbol bound to name, or nil if none is found.
func (st *SymbolTable) Lookup(name string) Symbol {
	scopes := st.scopes.Values()
	for i := len(scopes) - 1; i >= 0; i-- {
		if sym, ok := scopes[i].table[name]; ok {
			return sym
		}
	}
	return nil
}
