package vm

import "strings"

// List is a mutable ordered sequence of handles. It is the iterable
// collaborator the byte-buffer construction protocol consumes. Its items
// live in an RWCell: readers iterate concurrently, appends take the
// exclusive guard.
type List struct {
	items *RWCell[[]*Object]
}

// NewListPayload creates a list payload owning a copy of items.
func NewListPayload(items []*Object) *List {
	return &List{items: NewRWCell(append([]*Object(nil), items...))}
}

// Class implements Payload.
func (l *List) Class(ctx *Context) *Class {
	return ctx.ListClass
}

// Items returns a snapshot of the list's contents.
func (l *List) Items() ([]*Object, error) {
	g, err := l.items.Read()
	if err != nil {
		return nil, err
	}
	defer g.Release()
	return append([]*Object(nil), g.Value()...), nil
}

// SeqLen implements sequencePayload.
func (l *List) SeqLen() (int, error) {
	g, err := l.items.Read()
	if err != nil {
		return 0, err
	}
	defer g.Release()
	return len(g.Value()), nil
}

// SeqItem implements sequencePayload.
func (l *List) SeqItem(ctx *Context, i int) (*Object, error) {
	g, err := l.items.Read()
	if err != nil {
		return nil, err
	}
	defer g.Release()
	items := g.Value()
	if i < 0 || i >= len(items) {
		return nil, ctx.NewValueError("list index out of range")
	}
	return items[i], nil
}

func initList(ctx *Context) {
	ctx.ExtendClass(ctx.ListClass, "list() -> new empty list", map[string]NativeFunc{
		OpRepr:   listRepr,
		OpEq:     listEq,
		OpLen:    listLen,
		OpIter:   listIter,
		"append": listAppend,
	})
}

func listRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*List](ctx, OpRepr, args, ctx.ListClass)
	if err != nil {
		return nil, err
	}
	items, err := self.Payload().Items()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		r, err := ctx.Repr(item)
		if err != nil {
			return nil, err
		}
		parts[i] = r
	}
	return ctx.NewStr("[" + strings.Join(parts, ", ") + "]"), nil
}

func listEq(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*List](ctx, OpEq, args, ctx.ListClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(OpEq, args, 2, 2)
	}
	ol, ok := other.Payload().(*List)
	if !ok {
		return ctx.NewBool(false), nil
	}
	a, err := self.Payload().Items()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	b, err := ol.Items()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	if len(a) != len(b) {
		return ctx.NewBool(false), nil
	}
	for i := range a {
		res, err := ctx.CallMethod(a[i], OpEq, b[i])
		if err != nil {
			return nil, err
		}
		eq, ok := res.Payload().(*Bool)
		if !ok || !eq.Value {
			return ctx.NewBool(false), nil
		}
	}
	return ctx.NewBool(true), nil
}

func listLen(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*List](ctx, OpLen, args, ctx.ListClass)
	if err != nil {
		return nil, err
	}
	n, err := self.Payload().SeqLen()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	return ctx.NewInt(int64(n)), nil
}

func listIter(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*List](ctx, OpIter, args, ctx.ListClass)
	if err != nil {
		return nil, err
	}
	return ctx.newSequenceIterator(self.Object()), nil
}

func listAppend(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*List](ctx, "append", args, ctx.ListClass)
	if err != nil {
		return nil, err
	}
	item := args.Arg(1)
	if item == nil {
		return nil, ctx.ExpectArgs("append", args, 2, 2)
	}
	g, err := self.Payload().items.Write()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	defer g.Release()
	*g.Value() = append(*g.Value(), item.Retain())
	return self.Object(), nil
}
