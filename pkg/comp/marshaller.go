package comp

import (
	"fmt"
	"iter"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/pkg/seq"
)

// Marshaller handles conversion between Go values and evaluator objects.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to an Object. Slices and arrays become
// lists, string-keyed maps and structs become records, iter.Seq[any]
// becomes a lazy sequence.
func (m *Marshaller) ToValue(val any) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NIL, nil
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	switch v := val.(type) {
	case iter.Seq[any]:
		return m.seqToSequence(v), nil
	case time.Time:
		return &evaluator.String{Value: v.Format(time.RFC3339Nano)}, nil
	case []byte:
		return &evaluator.String{Value: string(v)}, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", v.Uint())
		}
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return &evaluator.List{}, nil
		}
		return m.sliceToList(v)
	case reflect.Map:
		return m.mapToRecord(v)
	case reflect.Struct:
		// Struct by value -> Record (copy)
		return m.structToRecord(v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return evaluator.NIL, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported Go type %T", val)
}

// FromValue converts an Object to a Go value: int64, float64, string,
// bool, nil, []any or map[string]any. Ranges and sequences are drained,
// so an infinite sequence never returns.
func (m *Marshaller) FromValue(obj evaluator.Object) (any, error) {
	switch o := obj.(type) {
	case nil, *evaluator.Nil:
		return nil, nil
	case *evaluator.Integer:
		return o.Value, nil
	case *evaluator.Float:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.List:
		return m.objectsToSlice(o.Elements)
	case *evaluator.Tuple:
		return m.objectsToSlice(o.Elements)
	case *evaluator.Record:
		return m.recordToMap(o)
	case *evaluator.Range, *evaluator.Sequence:
		it, errObj := evaluator.Iter(o)
		if errObj != nil {
			return nil, errObj
		}
		elements, err := seq.Collect(it)
		if err != nil {
			return nil, err
		}
		return m.objectsToSlice(elements)
	case *evaluator.Error:
		return nil, o
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", obj.Type())
}

// Vars converts variables to an environment.
func (m *Marshaller) Vars(vars Vars) (*evaluator.Environment, error) {
	env := evaluator.NewEnvironment()
	for name, val := range vars {
		obj, err := m.ToValue(val)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		env.Set(name, obj)
	}
	return env, nil
}

func (m *Marshaller) seqToSequence(s iter.Seq[any]) *evaluator.Sequence {
	return &evaluator.Sequence{
		Seq: func(yield func(evaluator.Object, error) bool) {
			for v := range s {
				obj, err := m.ToValue(v)
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(obj, nil) {
					return
				}
			}
		},
		Label: "go",
	}
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		elements[i] = val
	}
	return &evaluator.List{Elements: elements}, nil
}

// mapToRecord converts a string-keyed map. Fields are sorted by key so
// the result does not depend on map iteration order.
func (m *Marshaller) mapToRecord(v reflect.Value) (*evaluator.Record, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("map key type %s is not a string", v.Type().Key())
	}
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	rec := &evaluator.Record{Fields: make([]evaluator.RecordField, 0, len(keys))}
	for _, key := range keys {
		val, err := m.ToValue(v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())).Interface())
		if err != nil {
			return nil, fmt.Errorf("map value %s: %w", key, err)
		}
		rec.Set(key, val)
	}
	return rec, nil
}

func (m *Marshaller) structToRecord(v reflect.Value) (*evaluator.Record, error) {
	rec := &evaluator.Record{}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		val, err := m.ToValue(v.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		rec.Set(field.Name, val)
	}
	return rec, nil
}

func (m *Marshaller) objectsToSlice(objs []evaluator.Object) ([]any, error) {
	out := make([]any, len(objs))
	for i, o := range objs {
		val, err := m.FromValue(o)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func (m *Marshaller) recordToMap(r *evaluator.Record) (map[string]any, error) {
	result := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		val, err := m.FromValue(f.Value)
		if err != nil {
			return nil, err
		}
		result[f.Key] = val
	}
	return result, nil
}
