package vm

import "fmt"

// Operations on the two root classes. Everything not overridden further
// down the hierarchy resolves here.

func initObjectClass(ctx *Context) {
	ctx.ExtendClass(ctx.ObjectClass, "the root of the class hierarchy", map[string]NativeFunc{
		OpRepr: objectRepr,
		OpEq:   objectEq,
	})
}

// objectRepr is the fallback representation for types without one of
// their own.
func objectRepr(ctx *Context, args Args) (*Object, error) {
	recv := args.Self()
	if recv == nil {
		return nil, ctx.NewTypeError("__repr__: missing receiver")
	}
	return ctx.NewStr(fmt.Sprintf("<%s object>", recv.Class().Name)), nil
}

// objectEq is the fallback equality: handle identity. Total, never fails.
func objectEq(ctx *Context, args Args) (*Object, error) {
	if err := ctx.ExpectArgs(OpEq, args, 2, 2); err != nil {
		return nil, err
	}
	return ctx.NewBool(args[0] == args[1]), nil
}

func initType(ctx *Context) {
	ctx.ExtendClass(ctx.TypeClass, "type of all class objects", map[string]NativeFunc{
		OpRepr: typeRepr,
	})
}

func typeRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Class](ctx, OpRepr, args, ctx.TypeClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewStr(fmt.Sprintf("<class '%s'>", self.Payload().Name)), nil
}
