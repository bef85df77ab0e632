package vm

import "sort"

// Protocol operation names. Dispatch happens by name lookup on the runtime
// class of the receiver, mirroring the hosted language's duck-typed method
// resolution.
const (
	OpNew  = "__new__"
	OpEq   = "__eq__"
	OpLt   = "__lt__"
	OpLe   = "__le__"
	OpGt   = "__gt__"
	OpGe   = "__ge__"
	OpHash = "__hash__"
	OpRepr = "__repr__"
	OpLen  = "__len__"
	OpIter = "__iter__"
	OpNext = "__next__"
)

// Method is a native protocol operation: positional arguments (receiver
// first) plus the hosting context in, a single result-or-failure value out.
type Method interface {
	Invoke(ctx *Context, args Args) (*Object, error)
	Name() string
}

// NativeFunc is the uniform calling convention for built-in operations.
type NativeFunc func(ctx *Context, args Args) (*Object, error)

// nativeMethod wraps a NativeFunc as a Method.
type nativeMethod struct {
	name string
	fn   NativeFunc
}

func (m *nativeMethod) Invoke(ctx *Context, args Args) (*Object, error) {
	return m.fn(ctx, args)
}

func (m *nativeMethod) Name() string { return m.name }

// NewNativeMethod creates a named native method.
func NewNativeMethod(name string, fn NativeFunc) Method {
	return &nativeMethod{name: name, fn: fn}
}

// ---------------------------------------------------------------------------
// DispatchTable
// ---------------------------------------------------------------------------

// DispatchTable maps protocol operation names to native methods. Keys are
// unique; insertion order is irrelevant.
//
// A table is populated during one-shot class initialization and then
// frozen. After freezing it is read-only and may be shared across threads
// without synchronization. Mutating a frozen table is a programming error
// and panics.
type DispatchTable struct {
	methods map[string]Method
	frozen  bool
}

// NewDispatchTable creates an empty, unfrozen table.
func NewDispatchTable() *DispatchTable {
	return &DispatchTable{methods: make(map[string]Method)}
}

// Set binds a method under name. Panics if the table is frozen.
func (t *DispatchTable) Set(name string, m Method) {
	if t.frozen {
		panic("vm: dispatch table mutated after freeze")
	}
	t.methods[name] = m
}

// Get returns the method bound under name, or nil.
func (t *DispatchTable) Get(name string) Method {
	return t.methods[name]
}

// Freeze marks the table read-only. Idempotent.
func (t *DispatchTable) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table has been frozen.
func (t *DispatchTable) Frozen() bool {
	return t.frozen
}

// Len returns the number of bound operations.
func (t *DispatchTable) Len() int {
	return len(t.methods)
}

// Names returns the bound operation names, sorted.
func (t *DispatchTable) Names() []string {
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtendClass binds a set of native operations on cls, records its
// documentation string, and freezes the table. It is the one-shot
// registration entry point each built-in type calls during bootstrap.
func (ctx *Context) ExtendClass(cls *Class, doc string, ops map[string]NativeFunc) {
	for name, fn := range ops {
		cls.table.Set(name, NewNativeMethod(name, fn))
	}
	cls.Doc = doc
	cls.table.Freeze()
}
