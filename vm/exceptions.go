package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Raised conditions
// ---------------------------------------------------------------------------

// ExceptionPayload is the payload of a raised condition: its concrete
// exception class and a descriptive message.
type ExceptionPayload struct {
	class   *Class
	Message string
}

// Class returns the concrete exception class this payload was raised with.
func (e *ExceptionPayload) Class(ctx *Context) *Class {
	return e.class
}

// Raised wraps an exception object as a Go error, so every native
// operation returns a result-or-failure value the interpreter's
// error-propagation mechanism understands. A Raised condition is
// recoverable; it is never a process abort.
type Raised struct {
	Object *Object
}

func (r *Raised) Error() string {
	ep, ok := r.Object.payload.(*ExceptionPayload)
	if !ok || ep.Message == "" {
		return r.Object.class.Name
	}
	return fmt.Sprintf("%s: %s", r.Object.class.Name, ep.Message)
}

// RaisedObject extracts the exception object from an error returned by a
// native operation, or nil if err is not a raised condition.
func RaisedObject(err error) *Object {
	var r *Raised
	if errors.As(err, &r) {
		return r.Object
	}
	return nil
}

// ---------------------------------------------------------------------------
// Exception class bootstrap
// ---------------------------------------------------------------------------

func (ctx *Context) bootstrapExceptionClasses() {
	ctx.BaseExceptionClass = ctx.newClass("BaseException", ctx.ObjectClass)
	ctx.ExceptionClass = ctx.newClass("Exception", ctx.BaseExceptionClass)
	ctx.TypeErrorClass = ctx.newClass("TypeError", ctx.ExceptionClass)
	ctx.ValueErrorClass = ctx.newClass("ValueError", ctx.ExceptionClass)
	ctx.RuntimeErrorClass = ctx.newClass("RuntimeError", ctx.ExceptionClass)
	ctx.StopIterationClass = ctx.newClass("StopIteration", ctx.ExceptionClass)
}

func initExceptions(ctx *Context) {
	ctx.ExtendClass(ctx.BaseExceptionClass, "common base for raised conditions", map[string]NativeFunc{
		OpRepr: exceptionRepr,
	})
}

func exceptionRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*ExceptionPayload](ctx, OpRepr, args, ctx.BaseExceptionClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewStr(fmt.Sprintf("%s(%q)", self.Class().Name, self.Payload().Message)), nil
}

// ---------------------------------------------------------------------------
// Typed-error constructors
// ---------------------------------------------------------------------------

// NewException creates a raised-condition handle of the given class.
func (ctx *Context) NewException(cls *Class, msg string) *Object {
	return ctx.newObject(&ExceptionPayload{class: cls, Message: msg}, cls)
}

// NewTypeError returns a failure value raising a TypeError.
func (ctx *Context) NewTypeError(msg string) error {
	return &Raised{Object: ctx.NewException(ctx.TypeErrorClass, msg)}
}

// NewValueError returns a failure value raising a ValueError.
func (ctx *Context) NewValueError(msg string) error {
	return &Raised{Object: ctx.NewException(ctx.ValueErrorClass, msg)}
}

// NewRuntimeError returns a failure value raising a RuntimeError.
func (ctx *Context) NewRuntimeError(msg string) error {
	return &Raised{Object: ctx.NewException(ctx.RuntimeErrorClass, msg)}
}

// NewStopIteration returns the failure value that signals exhaustion of an
// iterator.
func (ctx *Context) NewStopIteration() error {
	return &Raised{Object: ctx.NewException(ctx.StopIterationClass, "")}
}

// IsStopIteration reports whether err is a raised StopIteration.
func (ctx *Context) IsStopIteration(err error) bool {
	obj := RaisedObject(err)
	return obj != nil && Isinstance(obj, ctx.StopIterationClass)
}

// Raise converts an internal condition into the caller-facing failure
// value. Conditions that are already raised pass through unchanged.
func (ctx *Context) Raise(err error) error {
	switch e := err.(type) {
	case nil:
		return nil
	case *Raised:
		return e
	case *BorrowConflictError:
		return ctx.NewRuntimeError(e.Error())
	case *TypeMismatchError:
		return ctx.NewTypeError(e.Error())
	case *ComparisonTypeError:
		return ctx.NewTypeError(e.Error())
	case *ConstructionError:
		return ctx.NewValueError(e.Error())
	}
	return &Raised{Object: ctx.NewException(ctx.RuntimeErrorClass, err.Error())}
}
