package evaluator

import (
	"iter"

	"github.com/funvibe/comp/internal/config"
	"github.com/funvibe/comp/pkg/seq"
)

func integerArgs(name string, args []Object) ([]int64, *Error) {
	out := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(*Integer)
		if !ok {
			return nil, newError("%s() argument %d must be INTEGER, got %s", name, i+1, a.Type())
		}
		out[i] = n.Value
	}
	return out, nil
}

// range(stop), range(start, stop), range(start, stop, step)
func builtinRange(e *Evaluator, args ...Object) Object {
	if len(args) < 1 || len(args) > 3 {
		return arityError(config.RangeFuncName, "1 to 3 arguments", len(args))
	}
	n, errObj := integerArgs(config.RangeFuncName, args)
	if errObj != nil {
		return errObj
	}
	switch len(n) {
	case 1:
		return &Range{Start: 0, Stop: n[0], Step: 1}
	case 2:
		return &Range{Start: n[0], Stop: n[1], Step: 1}
	}
	if n[2] == 0 {
		return newError("range() step must not be zero")
	}
	return &Range{Start: n[0], Stop: n[1], Step: n[2]}
}

// count(start = 0, step = 1) is infinite.
func builtinCount(e *Evaluator, args ...Object) Object {
	if len(args) > 2 {
		return arityError(config.CountFuncName, "at most 2 arguments", len(args))
	}
	n, errObj := integerArgs(config.CountFuncName, args)
	if errObj != nil {
		return errObj
	}
	start, step := int64(0), int64(1)
	if len(n) > 0 {
		start = n[0]
	}
	if len(n) > 1 {
		step = n[1]
	}
	return &Sequence{
		Seq: seq.Lift(seq.FilterMap(seq.Count(start, step), func(i int64) (Object, bool) {
			return &Integer{Value: i}, true
		})),
		Label: "count",
	}
}

func builtinList(e *Evaluator, args ...Object) Object {
	if len(args) == 0 {
		return &List{}
	}
	if len(args) != 1 {
		return arityError(config.ListFuncName, "at most 1 argument", len(args))
	}
	elements, errObj := collect(args[0])
	if errObj != nil {
		return errObj
	}
	// never alias the argument's backing array
	return &List{Elements: append([]Object(nil), elements...)}
}

func builtinEnumerate(e *Evaluator, args ...Object) Object {
	if len(args) < 1 || len(args) > 2 {
		return arityError(config.EnumerateFuncName, "1 or 2 arguments", len(args))
	}
	start := int64(0)
	if len(args) == 2 {
		n, errObj := integerArgs(config.EnumerateFuncName, args[1:])
		if errObj != nil {
			return errObj
		}
		start = n[0]
	}
	it, errObj := Iter(args[0])
	if errObj != nil {
		return errObj
	}
	return &Sequence{
		Seq: func(yield func(Object, error) bool) {
			i := start
			for v, err := range it {
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(&Tuple{Elements: []Object{&Integer{Value: i}, v}}, nil) {
					return
				}
				i++
			}
		},
		Label: "enumerate",
	}
}

// zip yields tuples until the shortest argument is exhausted.
func builtinZip(e *Evaluator, args ...Object) Object {
	if len(args) == 0 {
		return arityError(config.ZipFuncName, "at least 1 argument", 0)
	}
	its := make([]iter.Seq2[Object, error], len(args))
	for i, a := range args {
		it, errObj := Iter(a)
		if errObj != nil {
			return errObj
		}
		its[i] = it
	}
	return &Sequence{
		Seq: func(yield func(Object, error) bool) {
			nexts := make([]func() (Object, error, bool), len(its))
			for i, it := range its {
				next, stop := iter.Pull2(it)
				defer stop()
				nexts[i] = next
			}
			for {
				row := make([]Object, len(nexts))
				for i, next := range nexts {
					v, err, ok := next()
					if !ok {
						return
					}
					if err != nil {
						yield(nil, err)
						return
					}
					row[i] = v
				}
				if !yield(&Tuple{Elements: row}, nil) {
					return
				}
			}
		},
		Label: "zip",
	}
}
