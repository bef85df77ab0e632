package vm

import "fmt"

// sequencePayload is implemented by payloads whose elements can be fetched
// by index. The generic iterator drives this interface; the byte buffer
// and the list both satisfy it.
type sequencePayload interface {
	Payload
	SeqLen() (int, error)
	SeqItem(ctx *Context, i int) (*Object, error)
}

// SequenceIterator is the payload of a lazy cursor over a sequence. Each
// call to a sequence's __iter__ creates a fresh instance with its own
// cursor starting at zero; independent instances over the same value do
// not interfere. The cursor is interior-mutable state and therefore lives
// in a Cell, keeping the access discipline uniform with every other
// mutable payload.
type SequenceIterator struct {
	position *Cell[int]
	source   *Object // retained for the iterator's lifetime
}

// Class implements Payload.
func (it *SequenceIterator) Class(ctx *Context) *Class {
	return ctx.IteratorClass
}

// Source returns the handle the iterator walks.
func (it *SequenceIterator) Source() *Object {
	return it.source
}

// newSequenceIterator wraps source, which must carry a sequence payload.
func (ctx *Context) newSequenceIterator(source *Object) *Object {
	return ctx.NewObject(&SequenceIterator{
		position: NewCell(0),
		source:   source.Retain(),
	})
}

func initIterator(ctx *Context) {
	ctx.ExtendClass(ctx.IteratorClass, "iterator over an indexable sequence", map[string]NativeFunc{
		OpIter: iterIter,
		OpNext: iterNext,
	})
}

// iterIter: an iterator's __iter__ is itself.
func iterIter(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*SequenceIterator](ctx, OpIter, args, ctx.IteratorClass)
	if err != nil {
		return nil, err
	}
	return self.Object(), nil
}

// iterNext yields the element at the cursor and advances it, or raises
// StopIteration once the cursor reaches the sequence length. Exhaustion is
// permanent per instance.
func iterNext(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*SequenceIterator](ctx, OpNext, args, ctx.IteratorClass)
	if err != nil {
		return nil, err
	}
	it := self.Payload()
	seq, ok := it.source.Payload().(sequencePayload)
	if !ok {
		return nil, ctx.NewTypeError(fmt.Sprintf(
			"%s object is not an indexable sequence", it.source.Class().Name))
	}

	g, err := it.position.Lock()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	defer g.Release()

	n, err := seq.SeqLen()
	if err != nil {
		return nil, ctx.Raise(err)
	}
	pos := *g.Value()
	if pos >= n {
		return nil, ctx.NewStopIteration()
	}
	item, err := seq.SeqItem(ctx, pos)
	if err != nil {
		return nil, ctx.Raise(err)
	}
	*g.Value() = pos + 1
	return item, nil
}
