package vm

import "sync"

// ---------------------------------------------------------------------------
// Class: a registered type identity
// ---------------------------------------------------------------------------

// Class is a named entity in the ancestor hierarchy with a dispatch table
// of native protocol operations. The table is populated once during
// bootstrap and frozen; after that the class is read-only and safe to
// share without synchronization.
type Class struct {
	Name string
	Base *Class // nil for the root class
	Doc  string

	table *DispatchTable

	// object caches this class's first-class handle, created lazily by
	// Context.ClassObject.
	object *Object
}

// NewClass creates a class with an empty, unfrozen dispatch table.
func NewClass(name string, base *Class) *Class {
	return &Class{Name: name, Base: base, table: NewDispatchTable()}
}

// Class makes *Class itself a payload: a class handle's class is "type".
func (c *Class) Class(ctx *Context) *Class {
	return ctx.TypeClass
}

// MRO returns the method resolution order: this class followed by its
// ancestors, root last.
func (c *Class) MRO() []*Class {
	var order []*Class
	for cur := c; cur != nil; cur = cur.Base {
		order = append(order, cur)
	}
	return order
}

// IsSubclassOf reports whether c is other or a descendant of other.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

// Lookup finds a protocol operation by name, walking the MRO. Returns nil
// if no class in the chain defines it.
func (c *Class) Lookup(name string) Method {
	for cur := c; cur != nil; cur = cur.Base {
		if m := cur.table.Get(name); m != nil {
			return m
		}
	}
	return nil
}

// Table returns the class's dispatch table.
func (c *Class) Table() *DispatchTable {
	return c.table
}

// String implements the Stringer interface.
func (c *Class) String() string {
	return c.Name
}

// Isinstance reports whether obj's runtime class is cls or a descendant of
// cls: membership in the MRO, not pointer equality alone.
func Isinstance(obj *Object, cls *Class) bool {
	if obj == nil || cls == nil {
		return false
	}
	return obj.class.IsSubclassOf(cls)
}

// ---------------------------------------------------------------------------
// ClassTable: name -> class registry
// ---------------------------------------------------------------------------

// ClassTable manages registered classes by name. It is thread-safe for
// concurrent access.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*Class)}
}

// Register adds a class to the table. Returns the previous class with this
// name, or nil.
func (ct *ClassTable) Register(c *Class) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	old := ct.classes[c.Name]
	ct.classes[c.Name] = c
	return old
}

// Lookup finds a class by name.
func (ct *ClassTable) Lookup(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.classes[name]
}

// Has returns true if a class with this name is registered.
func (ct *ClassTable) Has(name string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	_, ok := ct.classes[name]
	return ok
}

// All returns all registered classes.
func (ct *ClassTable) All() []*Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	result := make([]*Class, 0, len(ct.classes))
	for _, c := range ct.classes {
		result = append(result, c)
	}
	return result
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.classes)
}
