package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/comp/internal/config"
)

// Builtins returns a fresh table of the builtin functions.
func Builtins() map[string]*Builtin {
	table := map[string]BuiltinFunction{
		config.LenFuncName:       builtinLen,
		config.RangeFuncName:     builtinRange,
		config.CountFuncName:     builtinCount,
		config.StrFuncName:       builtinStr,
		config.IntFuncName:       builtinInt,
		config.FloatFuncName:     builtinFloat,
		config.AbsFuncName:       builtinAbs,
		config.MinFuncName:       builtinMin,
		config.MaxFuncName:       builtinMax,
		config.SumFuncName:       builtinSum,
		config.ListFuncName:      builtinList,
		config.EnumerateFuncName: builtinEnumerate,
		config.ZipFuncName:       builtinZip,
		config.UpperFuncName:     builtinUpper,
		config.LowerFuncName:     builtinLower,
		config.KeysFuncName:      builtinKeys,
		config.ValuesFuncName:    builtinValues,
		config.QueryFuncName:     builtinQuery,
	}
	builtins := make(map[string]*Builtin, len(table))
	for name, fn := range table {
		builtins[name] = &Builtin{Name: name, Fn: fn}
	}
	return builtins
}

func arityError(name string, want string, got int) *Error {
	return newError("%s() takes %s, got %d", name, want, got)
}

func builtinLen(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError(config.LenFuncName, "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(arg.Value)))}
	case *List:
		return &Integer{Value: int64(len(arg.Elements))}
	case *Tuple:
		return &Integer{Value: int64(len(arg.Elements))}
	case *Record:
		return &Integer{Value: int64(len(arg.Fields))}
	case *Range:
		return &Integer{Value: arg.Len()}
	case *Sequence:
		return newError("len() of a lazy sequence is unknown, use len(list(...))")
	}
	return newError("len() not supported for %s", args[0].Type())
}

func builtinStr(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError(config.StrFuncName, "1 argument", len(args))
	}
	return &String{Value: Display(args[0])}
}

func builtinInt(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError(config.IntFuncName, "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		return arg
	case *Float:
		if math.IsNaN(arg.Value) || math.IsInf(arg.Value, 0) {
			return newError("int() cannot convert %s", arg.Inspect())
		}
		return &Integer{Value: int64(arg.Value)}
	case *Boolean:
		if arg.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *String:
		v, err := strconv.ParseInt(strings.TrimSpace(arg.Value), 0, 64)
		if err != nil {
			return newError("int() cannot parse %s", arg.Inspect())
		}
		return &Integer{Value: v}
	}
	return newError("int() not supported for %s", args[0].Type())
}

func builtinFloat(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError(config.FloatFuncName, "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *Float:
		return arg
	case *Integer:
		return &Float{Value: float64(arg.Value)}
	case *String:
		v, err := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
		if err != nil {
			return newError("float() cannot parse %s", arg.Inspect())
		}
		return &Float{Value: v}
	}
	return newError("float() not supported for %s", args[0].Type())
}

func builtinAbs(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError(config.AbsFuncName, "1 argument", len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		if arg.Value < 0 {
			return &Integer{Value: -arg.Value}
		}
		return arg
	case *Float:
		return &Float{Value: math.Abs(arg.Value)}
	}
	return newError("abs() not supported for %s", args[0].Type())
}

func builtinMin(e *Evaluator, args ...Object) Object {
	return extremum(config.MinFuncName, -1, args)
}

func builtinMax(e *Evaluator, args ...Object) Object {
	return extremum(config.MaxFuncName, 1, args)
}

// extremum implements min (want = -1) and max (want = 1) over either the
// arguments or the single iterable argument.
func extremum(name string, want int, args []Object) Object {
	values := args
	if len(args) == 1 {
		elements, errObj := collect(args[0])
		if errObj != nil {
			return errObj
		}
		values = elements
	}
	if len(values) == 0 {
		return newError("%s() of an empty sequence", name)
	}
	best := values[0]
	for _, v := range values[1:] {
		c, ok := compareObjects(v, best)
		if !ok {
			return newError("%s() cannot compare %s and %s", name, v.Type(), best.Type())
		}
		if c == want {
			best = v
		}
	}
	return best
}

func builtinSum(e *Evaluator, args ...Object) Object {
	if len(args) < 1 || len(args) > 2 {
		return arityError(config.SumFuncName, "1 or 2 arguments", len(args))
	}
	var total Object = &Integer{Value: 0}
	if len(args) == 2 {
		total = args[1]
	}
	it, errObj := Iter(args[0])
	if errObj != nil {
		return errObj
	}
	for v, err := range it {
		if err != nil {
			return asError(err)
		}
		if v.Type() != INTEGER_OBJ && v.Type() != FLOAT_OBJ {
			return newError("sum() of non-numeric %s", v.Type())
		}
		total = e.EvalInfixExpression("+", total, v)
		if isError(total) {
			return total
		}
	}
	return total
}

func builtinUpper(e *Evaluator, args ...Object) Object {
	return mapString(config.UpperFuncName, strings.ToUpper, args)
}

func builtinLower(e *Evaluator, args ...Object) Object {
	return mapString(config.LowerFuncName, strings.ToLower, args)
}

func mapString(name string, f func(string) string, args []Object) Object {
	if len(args) != 1 {
		return arityError(name, "1 argument", len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return newError("%s() expects STRING, got %s", name, args[0].Type())
	}
	return &String{Value: f(s.Value)}
}

func builtinKeys(e *Evaluator, args ...Object) Object {
	rec, errObj := recordArg(config.KeysFuncName, args)
	if errObj != nil {
		return errObj
	}
	keys := make([]Object, len(rec.Fields))
	for i, f := range rec.Fields {
		keys[i] = &String{Value: f.Key}
	}
	return &List{Elements: keys}
}

func builtinValues(e *Evaluator, args ...Object) Object {
	rec, errObj := recordArg(config.ValuesFuncName, args)
	if errObj != nil {
		return errObj
	}
	values := make([]Object, len(rec.Fields))
	for i, f := range rec.Fields {
		values[i] = f.Value
	}
	return &List{Elements: values}
}

func recordArg(name string, args []Object) (*Record, *Error) {
	if len(args) != 1 {
		return nil, arityError(name, "1 argument", len(args))
	}
	rec, ok := args[0].(*Record)
	if !ok {
		return nil, newError("%s() expects RECORD, got %s", name, args[0].Type())
	}
	return rec, nil
}
