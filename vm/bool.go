package vm

// Bool is the payload of the two boolean singletons.
type Bool struct {
	Value bool
}

// Class implements Payload.
func (b *Bool) Class(ctx *Context) *Class {
	return ctx.BoolClass
}

func initBool(ctx *Context) {
	ctx.ExtendClass(ctx.BoolClass, "bool() -> False, the false singleton", map[string]NativeFunc{
		OpRepr: boolRepr,
		OpEq:   boolEq,
		OpHash: boolHash,
	})
}

func boolRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bool](ctx, OpRepr, args, ctx.BoolClass)
	if err != nil {
		return nil, err
	}
	if self.Payload().Value {
		return ctx.NewStr("True"), nil
	}
	return ctx.NewStr("False"), nil
}

func boolEq(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bool](ctx, OpEq, args, ctx.BoolClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(OpEq, args, 2, 2)
	}
	// Bools are integers: True equals 1, False equals 0, in both
	// operand orders. Other types compare unequal, never an error.
	v, err := ctx.AsInt(other)
	if err != nil {
		return ctx.NewBool(false), nil
	}
	var own int64
	if self.Payload().Value {
		own = 1
	}
	return ctx.NewBool(own == v), nil
}

func boolHash(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bool](ctx, OpHash, args, ctx.BoolClass)
	if err != nil {
		return nil, err
	}
	if self.Payload().Value {
		return ctx.NewInt(1), nil
	}
	return ctx.NewInt(0), nil
}
