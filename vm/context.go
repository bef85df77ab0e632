package vm

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pyrite.vm")

// ---------------------------------------------------------------------------
// Context: the hosting VM context
// ---------------------------------------------------------------------------

// Context is the hosting VM context: the class registry, the well-known
// classes, the boolean singletons, and the constructors built-in
// operations use to produce results and failures. A context is fully
// initialized when NewContext returns; all dispatch tables are frozen.
type Context struct {
	ID string

	Classes *ClassTable

	ObjectClass   *Class
	TypeClass     *Class
	BoolClass     *Class
	IntClass      *Class
	StrClass      *Class
	BytesClass    *Class
	ListClass     *Class
	IteratorClass *Class

	BaseExceptionClass *Class
	ExceptionClass     *Class
	TypeErrorClass     *Class
	ValueErrorClass    *Class
	RuntimeErrorClass  *Class
	StopIterationClass *Class

	weakRefs *WeakRegistry

	trueObj    *Object
	falseObj   *Object
	classObjMu sync.Mutex
}

// NewContext creates and bootstraps a context: classes first, then every
// built-in's dispatch table, then a freeze of all remaining tables.
func NewContext() *Context {
	ctx := &Context{
		ID:       uuid.New().String(),
		Classes:  NewClassTable(),
		weakRefs: newWeakRegistry(),
	}
	ctx.bootstrap()
	return ctx
}

func (ctx *Context) bootstrap() {
	// Phase 1: root classes.
	ctx.ObjectClass = ctx.newClass("object", nil)
	ctx.TypeClass = ctx.newClass("type", ctx.ObjectClass)

	// Phase 2: value classes. bool subclasses int, as in the hosted
	// language.
	ctx.IntClass = ctx.newClass("int", ctx.ObjectClass)
	ctx.BoolClass = ctx.newClass("bool", ctx.IntClass)
	ctx.StrClass = ctx.newClass("str", ctx.ObjectClass)
	ctx.BytesClass = ctx.newClass("bytes", ctx.ObjectClass)
	ctx.ListClass = ctx.newClass("list", ctx.ObjectClass)
	ctx.IteratorClass = ctx.newClass("iterator", ctx.ObjectClass)

	// Phase 3: exception hierarchy.
	ctx.bootstrapExceptionClasses()

	// Phase 4: dispatch tables. Each init call is the one-shot, write-once
	// registration for its class; ExtendClass freezes as it goes.
	initObjectClass(ctx)
	initType(ctx)
	initBool(ctx)
	initInt(ctx)
	initStr(ctx)
	initBytes(ctx)
	initList(ctx)
	initIterator(ctx)
	initExceptions(ctx)

	// Phase 5: freeze every table that received no operations of its own
	// (exception subclasses inherit everything through the MRO).
	for _, c := range ctx.Classes.All() {
		c.table.Freeze()
	}

	// Phase 6: singletons.
	ctx.trueObj = ctx.NewObject(&Bool{Value: true})
	ctx.falseObj = ctx.NewObject(&Bool{Value: false})

	log.Debugf("context %s: bootstrapped %d classes", ctx.ID, ctx.Classes.Len())
}

func (ctx *Context) newClass(name string, base *Class) *Class {
	c := NewClass(name, base)
	ctx.Classes.Register(c)
	return c
}

// ---------------------------------------------------------------------------
// Value constructors. These always succeed and return a freshly owned
// handle.
// ---------------------------------------------------------------------------

// NewBool returns an owned handle on the shared boolean singleton.
func (ctx *Context) NewBool(b bool) *Object {
	if b {
		return ctx.trueObj.Retain()
	}
	return ctx.falseObj.Retain()
}

// NewInt wraps an integer value.
func (ctx *Context) NewInt(v int64) *Object {
	return ctx.NewObject(&Int{Value: v})
}

// NewStr wraps a string value.
func (ctx *Context) NewStr(s string) *Object {
	return ctx.NewObject(&Str{Value: s})
}

// NewBytes wraps a byte buffer. The bytes are copied; the buffer is
// immutable from then on.
func (ctx *Context) NewBytes(b []byte) *Object {
	return ctx.NewObject(NewBytesPayload(b))
}

// NewList wraps a list of handles. The slice is copied.
func (ctx *Context) NewList(items []*Object) *Object {
	return ctx.NewObject(NewListPayload(items))
}

// ClassObject returns the first-class handle for cls, creating it on first
// use. The handle is cached on the class; class identity never changes, so
// the cache is written at most once.
func (ctx *Context) ClassObject(cls *Class) *Object {
	ctx.classObjMu.Lock()
	defer ctx.classObjMu.Unlock()
	if cls.object == nil {
		cls.object = ctx.newObject(cls, ctx.TypeClass)
	}
	return cls.object
}

// ---------------------------------------------------------------------------
// Dispatch and iteration helpers
// ---------------------------------------------------------------------------

// CallMethod looks the operation up by name on recv's runtime class and
// invokes it with recv prepended to args.
func (ctx *Context) CallMethod(recv *Object, name string, args ...*Object) (*Object, error) {
	m := recv.Class().Lookup(name)
	if m == nil {
		return nil, ctx.NewTypeError(fmt.Sprintf(
			"%s object has no operation %s", recv.Class().Name, name))
	}
	call := make(Args, 0, len(args)+1)
	call = append(call, recv)
	call = append(call, args...)
	return m.Invoke(ctx, call)
}

// Construct invokes cls's construction protocol with the given arguments.
func (ctx *Context) Construct(cls *Class, args ...*Object) (*Object, error) {
	m := cls.Lookup(OpNew)
	if m == nil {
		return nil, ctx.NewTypeError(fmt.Sprintf("cannot construct %s instances", cls.Name))
	}
	call := make(Args, 0, len(args)+1)
	call = append(call, ctx.ClassObject(cls))
	call = append(call, args...)
	return m.Invoke(ctx, call)
}

// ExtractElements converts any iterable into a concrete ordered slice of
// elements by driving its iteration protocol to exhaustion.
func (ctx *Context) ExtractElements(obj *Object) ([]*Object, error) {
	iter, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		return nil, err
	}
	var elems []*Object
	for {
		item, err := ctx.CallMethod(iter, OpNext)
		if err != nil {
			if ctx.IsStopIteration(err) {
				return elems, nil
			}
			return nil, err
		}
		elems = append(elems, item)
	}
}

// Repr renders obj through its representation protocol and extracts the
// resulting text.
func (ctx *Context) Repr(obj *Object) (string, error) {
	res, err := ctx.CallMethod(obj, OpRepr)
	if err != nil {
		return "", err
	}
	ref, err := AsRef[*Str](res)
	if err != nil {
		return "", ctx.Raise(err)
	}
	return ref.Payload().Value, nil
}

// AsInt extracts the integer value of obj. Ints and bools qualify;
// anything else fails with a TypeError.
func (ctx *Context) AsInt(obj *Object) (int64, error) {
	switch p := obj.payload.(type) {
	case *Int:
		return p.Value, nil
	case *Bool:
		if p.Value {
			return 1, nil
		}
		return 0, nil
	}
	return 0, ctx.NewTypeError(fmt.Sprintf("expected an integer, got %s", obj.Class().Name))
}
