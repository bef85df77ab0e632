package vm

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Value snapshots
// ---------------------------------------------------------------------------

// Snapshot kind tags. One tag per built-in value shape.
const (
	snapBool  = "bool"
	snapInt   = "int"
	snapStr   = "str"
	snapBytes = "bytes"
	snapList  = "list"
)

// Snapshot is the portable encoding of a built-in value: a kind tag plus
// the one field that kind uses. Lists nest recursively.
type Snapshot struct {
	Kind  string      `cbor:"k"`
	Bool  bool        `cbor:"b,omitempty"`
	Int   int64       `cbor:"i,omitempty"`
	Str   string      `cbor:"s,omitempty"`
	Bytes []byte      `cbor:"y,omitempty"`
	Elems []*Snapshot `cbor:"e,omitempty"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SnapshotValue converts a handle into its portable snapshot. Only the
// built-in value shapes are snapshotable; anything else fails.
func (ctx *Context) SnapshotValue(obj *Object) (*Snapshot, error) {
	switch p := obj.payload.(type) {
	case *Bool:
		return &Snapshot{Kind: snapBool, Bool: p.Value}, nil
	case *Int:
		return &Snapshot{Kind: snapInt, Int: p.Value}, nil
	case *Str:
		return &Snapshot{Kind: snapStr, Str: p.Value}, nil
	case *Bytes:
		return &Snapshot{Kind: snapBytes, Bytes: p.value}, nil
	case *List:
		items, err := p.Items()
		if err != nil {
			return nil, err
		}
		elems := make([]*Snapshot, len(items))
		for i, item := range items {
			s, err := ctx.SnapshotValue(item)
			if err != nil {
				return nil, err
			}
			elems[i] = s
		}
		return &Snapshot{Kind: snapList, Elems: elems}, nil
	}
	return nil, fmt.Errorf("vm: %s values are not snapshotable", obj.Class().Name)
}

// RestoreValue reconstructs an owned handle from a snapshot. Snapshots
// arrive from storage, so malformed input is an error, never a panic.
func (ctx *Context) RestoreValue(s *Snapshot) (*Object, error) {
	if s == nil {
		return nil, fmt.Errorf("vm: nil snapshot")
	}
	switch s.Kind {
	case snapBool:
		return ctx.NewBool(s.Bool), nil
	case snapInt:
		return ctx.NewInt(s.Int), nil
	case snapStr:
		return ctx.NewStr(s.Str), nil
	case snapBytes:
		return ctx.NewBytes(s.Bytes), nil
	case snapList:
		items := make([]*Object, len(s.Elems))
		for i, elem := range s.Elems {
			obj, err := ctx.RestoreValue(elem)
			if err != nil {
				return nil, err
			}
			items[i] = obj
		}
		return ctx.NewList(items), nil
	}
	return nil, fmt.Errorf("vm: unknown snapshot kind %q", s.Kind)
}

// MarshalSnapshot serializes a snapshot to canonical CBOR bytes. Canonical
// mode makes the encoding deterministic, so equal values produce equal
// bytes and equal hashes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vm: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// SnapshotHash computes the content address of a snapshot: the SHA-256 of
// its canonical encoding.
func SnapshotHash(s *Snapshot) ([32]byte, error) {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
