package vm

import "strconv"

// Int is the payload of an integer value.
type Int struct {
	Value int64
}

// Class implements Payload.
func (i *Int) Class(ctx *Context) *Class {
	return ctx.IntClass
}

func initInt(ctx *Context) {
	ctx.ExtendClass(ctx.IntClass, "int() -> integer", map[string]NativeFunc{
		OpRepr: intRepr,
		OpEq:   intEq,
		OpHash: intHash,
	})
}

func intRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Int](ctx, OpRepr, args, ctx.IntClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewStr(strconv.FormatInt(self.Payload().Value, 10)), nil
}

func intEq(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Int](ctx, OpEq, args, ctx.IntClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(OpEq, args, 2, 2)
	}
	// Bools compare equal to their integer value, other types unequal.
	v, err := ctx.AsInt(other)
	if err != nil {
		return ctx.NewBool(false), nil
	}
	return ctx.NewBool(self.Payload().Value == v), nil
}

func intHash(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Int](ctx, OpHash, args, ctx.IntClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewInt(self.Payload().Value), nil
}
