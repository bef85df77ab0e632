package vm

import (
	"fmt"
	"unicode/utf8"
)

// Str is the payload of a text value. The content is immutable.
type Str struct {
	Value string
}

// Class implements Payload.
func (s *Str) Class(ctx *Context) *Class {
	return ctx.StrClass
}

func initStr(ctx *Context) {
	ctx.ExtendClass(ctx.StrClass, "str() -> empty string", map[string]NativeFunc{
		OpRepr: strRepr,
		OpEq:   strEq,
		OpHash: strHash,
		OpLen:  strLen,
	})
}

func strRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Str](ctx, OpRepr, args, ctx.StrClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewStr(fmt.Sprintf("'%s'", self.Payload().Value)), nil
}

func strEq(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Str](ctx, OpEq, args, ctx.StrClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(OpEq, args, 2, 2)
	}
	os, ok := other.Payload().(*Str)
	if !ok {
		return ctx.NewBool(false), nil
	}
	return ctx.NewBool(self.Payload().Value == os.Value), nil
}

func strHash(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Str](ctx, OpHash, args, ctx.StrClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewInt(int64(hashString(self.Payload().Value))), nil
}

// strLen counts characters, not bytes.
func strLen(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Str](ctx, OpLen, args, ctx.StrClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewInt(int64(utf8.RuneCountInString(self.Payload().Value))), nil
}
