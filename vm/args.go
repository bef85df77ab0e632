package vm

import "fmt"

// Args is the positional argument list of a native call. By convention the
// receiver is args[0]; for __new__ the destination class handle is args[0].
type Args []*Object

// Self returns the receiver (args[0]), or nil if the list is empty.
func (a Args) Self() *Object {
	if len(a) == 0 {
		return nil
	}
	return a[0]
}

// Arg returns args[i], or nil if absent. Used for optional arguments.
func (a Args) Arg(i int) *Object {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// ExpectArgs fails with a TypeError unless the argument count lies in
// [min, max]. A negative max means unbounded.
func (ctx *Context) ExpectArgs(name string, args Args, min, max int) error {
	n := len(args)
	if n >= min && (max < 0 || n <= max) {
		return nil
	}
	if min == max {
		return ctx.NewTypeError(fmt.Sprintf("%s: expected %d arguments, got %d", name, min, n))
	}
	return ctx.NewTypeError(fmt.Sprintf("%s: expected %d to %d arguments, got %d", name, min, max, n))
}

// BindSelf checks that the receiver is an instance of cls and returns a
// typed reference to it. A wrong receiver surfaces as a raised TypeError,
// never a process error.
func BindSelf[T Payload](ctx *Context, name string, args Args, cls *Class) (Ref[T], error) {
	recv := args.Self()
	if recv == nil {
		return Ref[T]{}, ctx.NewTypeError(fmt.Sprintf("%s: missing receiver", name))
	}
	if !Isinstance(recv, cls) {
		return Ref[T]{}, ctx.NewTypeError(fmt.Sprintf(
			"%s: receiver must be %s, not %s", name, cls.Name, recv.Class().Name))
	}
	ref, err := AsRef[T](recv)
	if err != nil {
		return Ref[T]{}, ctx.Raise(err)
	}
	return ref, nil
}
