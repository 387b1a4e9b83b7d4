package evaluator

import (
	"cmp"
	"strings"
)

// ObjectsEqual performs a deep equality check between two objects. Integers
// and floats compare by numeric value.
func ObjectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}

	if a.Type() != b.Type() {
		return false
	}

	switch aVal := a.(type) {
	case *Integer:
		return aVal.Value == b.(*Integer).Value
	case *String:
		return aVal.Value == b.(*String).Value
	case *Boolean:
		return aVal.Value == b.(*Boolean).Value
	case *Nil:
		return true
	case *List:
		return elementsEqual(aVal.Elements, b.(*List).Elements)
	case *Tuple:
		return elementsEqual(aVal.Elements, b.(*Tuple).Elements)
	case *Record:
		bVal := b.(*Record)
		if len(aVal.Fields) != len(bVal.Fields) {
			return false
		}
		for _, f := range aVal.Fields {
			other, ok := bVal.Get(f.Key)
			if !ok || !ObjectsEqual(f.Value, other) {
				return false
			}
		}
		return true
	case *Range:
		bVal := b.(*Range)
		return aVal.Len() == bVal.Len() && (aVal.Len() == 0 || aVal.Start == bVal.Start && aVal.Step == bVal.Step)
	case *Builtin:
		return aVal.Name == b.(*Builtin).Name
	}
	// Sequences are compared by identity only
	return false
}

func elementsEqual(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ObjectsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// numericPair returns both operands as floats when at least one is a Float
// and the other is numeric.
func numericPair(a, b Object) (float64, float64, bool) {
	if a.Type() != FLOAT_OBJ && b.Type() != FLOAT_OBJ {
		return 0, 0, false
	}
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	return x, y, okA && okB
}

func toFloat(o Object) (float64, bool) {
	switch o := o.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Float:
		return o.Value, true
	}
	return 0, false
}

// compareObjects orders two numbers, two strings, or two lists/tuples
// element-wise. ok is false for any other pair.
func compareObjects(a, b Object) (int, bool) {
	if x, ok := a.(*Integer); ok {
		if y, ok := b.(*Integer); ok {
			return cmp.Compare(x.Value, y.Value), true
		}
	}
	if x, y, ok := numericPair(a, b); ok {
		return cmp.Compare(x, y), true
	}
	if x, ok := a.(*String); ok {
		if y, ok := b.(*String); ok {
			return strings.Compare(x.Value, y.Value), true
		}
	}

	var xs, ys []Object
	switch x := a.(type) {
	case *List:
		y, ok := b.(*List)
		if !ok {
			return 0, false
		}
		xs, ys = x.Elements, y.Elements
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok {
			return 0, false
		}
		xs, ys = x.Elements, y.Elements
	default:
		return 0, false
	}
	for i := 0; i < len(xs) && i < len(ys); i++ {
		c, ok := compareObjects(xs[i], ys[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	return cmp.Compare(len(xs), len(ys)), true
}
