package comp_test

import (
	"iter"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/pkg/comp"
)

func TestToValue(t *testing.T) {
	answer := 42
	var nilPtr *Person
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "nil"},
		{"int", 7, "7"},
		{"int8", int8(-3), "-3"},
		{"uint", uint32(9), "9"},
		{"float32", float32(0.5), "0.5"},
		{"float", 2.0, "2.0"},
		{"bool", true, "true"},
		{"string", "hi", `"hi"`},
		{"bytes", []byte("raw"), `"raw"`},
		{"time", stamp, `"2024-03-01T12:00:00Z"`},
		{"slice", []any{1, "a", nil}, `[1, "a", nil]`},
		{"nil_slice", []int(nil), "[]"},
		{"array", [2]bool{true, false}, "[true, false]"},
		{"map_sorted", map[string]int{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
		{"struct", Person{Name: "ann", Age: 31, note: "hidden"}, `{"Name": "ann", "Age": 31}`},
		{"pointer", &answer, "42"},
		{"nil_pointer", nilPtr, "nil"},
		{"object", &evaluator.Integer{Value: 5}, "5"},
	}

	m := comp.NewMarshaller()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := m.ToValue(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, obj.Inspect())
		})
	}
}

func TestToValueErrors(t *testing.T) {
	m := comp.NewMarshaller()

	_, err := m.ToValue(uint64(math.MaxUint64))
	require.EqualError(t, err, "integer 18446744073709551615 overflows int64")

	_, err = m.ToValue(map[int]string{1: "a"})
	require.EqualError(t, err, "map key type int is not a string")

	_, err = m.ToValue([]any{1, func() {}})
	require.EqualError(t, err, "index 1: unsupported Go type func()")

	_, err = m.ToValue(struct{ C chan int }{})
	require.EqualError(t, err, "field C: unsupported Go type chan int")
}

func TestToValueSequence(t *testing.T) {
	var letters iter.Seq[any] = func(yield func(any) bool) {
		for _, s := range []string{"a", "b"} {
			if !yield(s) {
				return
			}
		}
	}

	m := comp.NewMarshaller()
	obj, err := m.ToValue(letters)
	require.NoError(t, err)
	require.Equal(t, "<sequence go>", obj.Inspect())

	// sequences are drained on the way back
	got, err := m.FromValue(obj)
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, got)
}

func TestFromValue(t *testing.T) {
	rec := &evaluator.Record{}
	rec.Set("name", &evaluator.String{Value: "ann"})
	rec.Set("tags", &evaluator.Tuple{Elements: []evaluator.Object{evaluator.TRUE, evaluator.NIL}})

	tests := []struct {
		name     string
		input    evaluator.Object
		expected any
	}{
		{"integer", &evaluator.Integer{Value: 3}, int64(3)},
		{"float", &evaluator.Float{Value: 1.5}, 1.5},
		{"string", &evaluator.String{Value: "s"}, "s"},
		{"boolean", evaluator.FALSE, false},
		{"nil", evaluator.NIL, nil},
		{"list", &evaluator.List{Elements: []evaluator.Object{&evaluator.Integer{Value: 1}}}, []any{int64(1)}},
		{"record", rec, map[string]any{"name": "ann", "tags": []any{true, nil}}},
		{"range", &evaluator.Range{Start: 3, Stop: 0, Step: -1}, []any{int64(3), int64(2), int64(1)}},
	}

	m := comp.NewMarshaller()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FromValue(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("FromValue mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromValueErrors(t *testing.T) {
	m := comp.NewMarshaller()

	_, err := m.FromValue(&evaluator.Builtin{Name: "len"})
	require.EqualError(t, err, "unsupported type for conversion: BUILTIN")

	_, err = m.FromValue(&evaluator.Error{Message: "boom", Line: 1, Column: 2})
	require.EqualError(t, err, "1:2: boom")

	failing := &evaluator.Sequence{Seq: func(yield func(evaluator.Object, error) bool) {
		if !yield(&evaluator.Integer{Value: 1}, nil) {
			return
		}
		yield(nil, &evaluator.Error{Message: "late"})
	}}
	_, err = m.FromValue(failing)
	require.EqualError(t, err, "late")
}
