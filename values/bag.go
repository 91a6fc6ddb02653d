package values

import (
	"fmt"
	"strings"
)

// Bag is an immutable multiset of primitive values sharing one datatype.
// Once constructed the element slice is never mutated; callers receive the
// internal slice and must treat it as read-only.
type Bag struct {
	elementType string
	elems       []Value
}

// NewBag builds a bag of the given element datatype. Every element must have
// exactly that datatype.
func NewBag(elementType string, elems ...Value) (*Bag, error) {
	for _, e := range elems {
		if e.DatatypeID() != elementType {
			return nil, fmt.Errorf("bag of %s cannot hold %s element", elementType, e.DatatypeID())
		}
	}
	return &Bag{elementType: elementType, elems: elems}, nil
}

// EmptyBag returns an empty bag of the given element datatype.
func EmptyBag(elementType string) *Bag {
	return &Bag{elementType: elementType}
}

// SingletonBag wraps one primitive value in a bag.
func SingletonBag(v Value) *Bag {
	return &Bag{elementType: v.DatatypeID(), elems: []Value{v}}
}

func (b *Bag) DatatypeID() string { return BagDatatypeID(b.elementType) }

// ElementType returns the primitive datatype of the bag's elements.
func (b *Bag) ElementType() string { return b.elementType }

// Size returns the number of elements.
func (b *Bag) Size() int { return len(b.elems) }

// Elements returns the element slice. The slice is shared and must not be
// modified.
func (b *Bag) Elements() []Value { return b.elems }

// Contains reports whether the bag holds a value equal to v.
func (b *Bag) Contains(v Value) bool {
	for _, e := range b.elems {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

// Single returns the only element of a singleton bag.
func (b *Bag) Single() (Value, error) {
	if len(b.elems) != 1 {
		return nil, fmt.Errorf("expected singleton bag of %s, got %d elements", b.elementType, len(b.elems))
	}
	return b.elems[0], nil
}

func (b *Bag) String() string {
	parts := make([]string, len(b.elems))
	for i, e := range b.elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Equal reports multiset equality: same element type, same size, and each
// distinct element occurring the same number of times on both sides.
func (b *Bag) Equal(o Value) bool {
	w, ok := o.(*Bag)
	if !ok || b.elementType != w.elementType || len(b.elems) != len(w.elems) {
		return false
	}
	for _, e := range b.elems {
		if countIn(b.elems, e) != countIn(w.elems, e) {
			return false
		}
	}
	return true
}

func countIn(elems []Value, v Value) int {
	n := 0
	for _, e := range elems {
		if e.Equal(v) {
			n++
		}
	}
	return n
}
