package vm

import "sync"

// ---------------------------------------------------------------------------
// WeakRef: a reference that doesn't keep its target alive
// ---------------------------------------------------------------------------

// WeakRef holds a non-owning reference to an object. When the target's
// reference count reaches zero the reference is cleared and the finalizer,
// if any, runs. Reverse links in the object graph (an iterator registry, a
// cache back onto its owner) use weak references so a cycle never keeps
// its members alive.
type WeakRef struct {
	mu        sync.RWMutex
	target    *Object
	finalizer func(*Object)
}

// NewWeakRef creates a weak reference to target, registered with the
// context that will clear it.
func (ctx *Context) NewWeakRef(target *Object) *WeakRef {
	wr := &WeakRef{target: target}
	ctx.weakRefs.register(wr)
	return wr
}

// Get returns the target object, or nil if it has died.
func (wr *WeakRef) Get() *Object {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.target
}

// IsAlive returns true if the target object has not died.
func (wr *WeakRef) IsAlive() bool {
	return wr.Get() != nil
}

// SetFinalizer sets a callback invoked once, after the target dies. The
// callback receives the dead handle for informational purposes only.
func (wr *WeakRef) SetFinalizer(fn func(*Object)) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.finalizer = fn
}

// Finalizer returns the finalization callback, if any.
func (wr *WeakRef) Finalizer() func(*Object) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.finalizer
}

// clear clears the reference and returns the old target.
func (wr *WeakRef) clear() *Object {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	old := wr.target
	wr.target = nil
	return old
}

// ---------------------------------------------------------------------------
// WeakRegistry: tracks the live weak references of one context
// ---------------------------------------------------------------------------

// WeakRegistry manages all weak references created through a context. It
// clears references when their targets die.
type WeakRegistry struct {
	mu   sync.Mutex
	refs map[*WeakRef]struct{}
}

func newWeakRegistry() *WeakRegistry {
	return &WeakRegistry{refs: make(map[*WeakRef]struct{})}
}

func (r *WeakRegistry) register(wr *WeakRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[wr] = struct{}{}
}

// Unregister removes a weak reference from the registry. The reference
// keeps working but will no longer be cleared when its target dies.
func (r *WeakRegistry) Unregister(wr *WeakRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refs, wr)
}

// Count returns the number of registered weak references.
func (r *WeakRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}

// clearTarget clears every weak reference to the dead object. Finalizers
// run outside the registry lock.
func (r *WeakRegistry) clearTarget(dead *Object) {
	r.mu.Lock()
	var fire []*WeakRef
	for wr := range r.refs {
		if wr.Get() == dead {
			delete(r.refs, wr)
			fire = append(fire, wr)
		}
	}
	r.mu.Unlock()

	for _, wr := range fire {
		old := wr.clear()
		if fn := wr.Finalizer(); fn != nil {
			fn(old)
		}
	}
}
