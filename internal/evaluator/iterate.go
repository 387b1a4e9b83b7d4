package evaluator

import (
	"iter"
	"slices"

	"github.com/funvibe/comp/pkg/seq"
)

// Iter returns the elements of an iterable object:
//
//	List, Tuple      its elements
//	String           one-character strings
//	Record           (key, value) tuples in field order
//	Range, Sequence  their values, lazily
func Iter(obj Object) (iter.Seq2[Object, error], *Error) {
	switch obj := obj.(type) {
	case *List:
		return seq.Lift(slices.Values(obj.Elements)), nil
	case *Tuple:
		return seq.Lift(slices.Values(obj.Elements)), nil
	case *String:
		return func(yield func(Object, error) bool) {
			for _, r := range obj.Value {
				if !yield(&String{Value: string(r)}, nil) {
					return
				}
			}
		}, nil
	case *Record:
		return func(yield func(Object, error) bool) {
			for _, f := range obj.Fields {
				if !yield(&Tuple{Elements: []Object{&String{Value: f.Key}, f.Value}}, nil) {
					return
				}
			}
		}, nil
	case *Range:
		return seq.Lift(seq.FilterMap(seq.Step(obj.Start, obj.Stop, obj.Step), func(i int64) (Object, bool) {
			return &Integer{Value: i}, true
		})), nil
	case *Sequence:
		return obj.Seq, nil
	}
	return nil, newError("%s is not iterable", obj.Type())
}

// collect materializes an iterable into a slice.
func collect(obj Object) ([]Object, *Error) {
	switch obj := obj.(type) {
	case *List:
		return obj.Elements, nil
	case *Tuple:
		return obj.Elements, nil
	}
	it, errObj := Iter(obj)
	if errObj != nil {
		return nil, errObj
	}
	var out []Object
	for v, err := range it {
		if err != nil {
			return nil, asError(err)
		}
		out = append(out, v)
	}
	return out, nil
}
