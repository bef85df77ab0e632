package vm

import (
	"fmt"
	"sync/atomic"
)

// Payload is the capability a concrete Go type must provide to live inside
// an object handle: Class returns the class object representing instances
// of the payload type. It is the sole hook connecting a native payload to
// the dynamic type system.
type Payload interface {
	Class(ctx *Context) *Class
}

// Object is the universal handle: a shared-ownership reference to a class
// identity and an opaque payload. Multiple handles may reference the same
// underlying object; lifetime is governed by the reference count. The
// class identity never changes after construction.
//
// External code never mutates payload state directly; any interior
// mutability a payload needs is wrapped in a Cell or RWCell.
type Object struct {
	class   *Class
	payload Payload
	refs    atomic.Int64
	ctx     *Context // owning context, consulted when the handle dies
}

// NewObject wraps payload in a handle tagged with the payload's own class.
// The new handle starts with one reference, owned by the caller.
func (ctx *Context) NewObject(payload Payload) *Object {
	return ctx.newObject(payload, payload.Class(ctx))
}

// NewObjectWithClass wraps payload in a handle tagged with a destination
// class, which must be the payload's own class or a subclass of it. This
// is how embedding code subclasses a built-in type without changing its
// payload.
func (ctx *Context) NewObjectWithClass(payload Payload, cls *Class) (*Object, error) {
	own := payload.Class(ctx)
	if cls == nil || !cls.IsSubclassOf(own) {
		got := "<nil>"
		if cls != nil {
			got = cls.Name
		}
		return nil, &TypeMismatchError{Want: own.Name, Got: got}
	}
	return ctx.newObject(payload, cls), nil
}

func (ctx *Context) newObject(payload Payload, cls *Class) *Object {
	o := &Object{class: cls, payload: payload, ctx: ctx}
	o.refs.Store(1)
	return o
}

// Class returns the handle's class identity.
func (o *Object) Class() *Class {
	return o.class
}

// Payload returns the wrapped payload.
func (o *Object) Payload() Payload {
	return o.payload
}

// Retain adds a reference and returns o for chaining. Retaining a dead
// handle panics.
func (o *Object) Retain() *Object {
	if o.refs.Add(1) <= 1 {
		panic("vm: Retain on a dead object")
	}
	return o
}

// Release drops a reference. When the count reaches zero the handle is
// dead: weak references to it are cleared and their finalizers run.
// Releasing a dead handle panics.
func (o *Object) Release() {
	n := o.refs.Add(-1)
	if n < 0 {
		panic("vm: Release on a dead object")
	}
	if n == 0 && o.ctx != nil {
		o.ctx.weakRefs.clearTarget(o)
	}
}

// RefCount returns the current reference count. Diagnostics only.
func (o *Object) RefCount() int64 {
	return o.refs.Load()
}

// IsAlive reports whether the handle still has any owner.
func (o *Object) IsAlive() bool {
	return o.refs.Load() > 0
}

// ---------------------------------------------------------------------------
// Typed references
// ---------------------------------------------------------------------------

// Ref is a typed reference: a handle statically known, after the one-time
// check in AsRef, to wrap a payload of concrete type T. Every operation
// through it is type-safe without re-checking.
type Ref[T Payload] struct {
	obj     *Object
	payload T
}

// AsRef converts a generic handle into a typed reference. The downcast is
// checked here, exactly once; it fails with a TypeMismatchError if the
// handle's payload is not a T.
func AsRef[T Payload](obj *Object) (Ref[T], error) {
	p, ok := obj.payload.(T)
	if !ok {
		var want T
		return Ref[T]{}, &TypeMismatchError{
			Want: fmt.Sprintf("%T", want),
			Got:  obj.class.Name,
		}
	}
	return Ref[T]{obj: obj, payload: p}, nil
}

// Object returns the underlying generic handle.
func (r Ref[T]) Object() *Object {
	return r.obj
}

// Payload returns the typed payload.
func (r Ref[T]) Payload() T {
	return r.payload
}

// Class returns the handle's class identity.
func (r Ref[T]) Class() *Class {
	return r.obj.class
}
