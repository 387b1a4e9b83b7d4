package evaluator

import (
	"fmt"
	"iter"
	"strings"

	"github.com/funvibe/comp/internal/prettyprinter"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	NIL_OBJ      = "NIL"
	LIST_OBJ     = "LIST"
	TUPLE_OBJ    = "TUPLE"
	RECORD_OBJ   = "RECORD"
	RANGE_OBJ    = "RANGE"
	SEQUENCE_OBJ = "SEQUENCE"
	BUILTIN_OBJ  = "BUILTIN"
	ERROR_OBJ    = "ERROR"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return prettyprinter.FormatFloat(f.Value) }

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return prettyprinter.Quote(s.Value) }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// List is a materialized, ordered collection.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string  { return "[" + inspectAll(l.Elements) + "]" }

// Tuple
type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	if len(t.Elements) == 1 {
		return "(" + t.Elements[0].Inspect() + ",)"
	}
	return "(" + inspectAll(t.Elements) + ")"
}

// RecordField is one named value of a Record.
type RecordField struct {
	Key   string
	Value Object
}

// Record is a set of named fields kept in insertion order.
type Record struct {
	Fields []RecordField
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = prettyprinter.Quote(f.Key) + ": " + f.Value.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value of field key.
func (r *Record) Get(key string) (Object, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key, or appends a new field.
func (r *Record) Set(key string, val Object) {
	for i, f := range r.Fields {
		if f.Key == key {
			r.Fields[i].Value = val
			return
		}
	}
	r.Fields = append(r.Fields, RecordField{Key: key, Value: val})
}

// Range is the lazy integer progression Start, Start+Step, ... up to but
// excluding Stop.
type Range struct {
	Start, Stop, Step int64
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string {
	if r.Step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

// Len is the number of values the range yields.
func (r *Range) Len() int64 {
	switch {
	case r.Step > 0 && r.Start < r.Stop:
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	case r.Step < 0 && r.Start > r.Stop:
		return (r.Start - r.Stop - r.Step - 1) / -r.Step
	}
	return 0
}

// Sequence is a lazy, possibly infinite stream of objects. Every range over
// Seq starts a new pass.
type Sequence struct {
	Seq   iter.Seq2[Object, error]
	Label string
}

func (s *Sequence) Type() ObjectType { return SEQUENCE_OBJ }
func (s *Sequence) Inspect() string {
	if s.Label != "" {
		return "<sequence " + s.Label + ">"
	}
	return "<sequence>"
}

func inspectAll(objs []Object) string {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = o.Inspect()
	}
	return strings.Join(parts, ", ")
}

// Display renders obj for output: strings are unquoted at the top level,
// everything else is shown as Inspect does.
func Display(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.Value
	}
	return obj.Inspect()
}
