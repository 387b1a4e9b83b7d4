package evaluator

import (
	"fmt"
	"time"

	"github.com/funvibe/comp/internal/config"
)

// query(sql, args...) yields one record per row, keyed by column name. The
// statement runs when the sequence is first ranged over.
func builtinQuery(e *Evaluator, args ...Object) Object {
	if len(args) < 1 {
		return arityError(config.QueryFuncName, "at least 1 argument", len(args))
	}
	stmt, ok := args[0].(*String)
	if !ok {
		return newError("query() statement must be STRING, got %s", args[0].Type())
	}
	params := make([]any, len(args)-1)
	for i, a := range args[1:] {
		v, errObj := sqlParam(a)
		if errObj != nil {
			return errObj
		}
		params[i] = v
	}
	if e.DB == nil {
		return newError("query() needs a database, none is configured")
	}
	db, ctx := e.DB, e.Context
	return &Sequence{
		Seq: func(yield func(Object, error) bool) {
			rows, err := db.QueryContext(ctx, stmt.Value, params...)
			if err != nil {
				yield(nil, newError("query failed: %v", err))
				return
			}
			defer rows.Close()
			columns, err := rows.Columns()
			if err != nil {
				yield(nil, newError("query failed: %v", err))
				return
			}
			for rows.Next() {
				values := make([]any, len(columns))
				ptrs := make([]any, len(columns))
				for i := range values {
					ptrs[i] = &values[i]
				}
				if err := rows.Scan(ptrs...); err != nil {
					yield(nil, newError("query failed: %v", err))
					return
				}
				rec := &Record{Fields: make([]RecordField, 0, len(columns))}
				for i, col := range columns {
					rec.Set(col, sqlValue(values[i]))
				}
				if !yield(rec, nil) {
					return
				}
			}
			if err := rows.Err(); err != nil {
				yield(nil, newError("query failed: %v", err))
			}
		},
		Label: "query",
	}
}

func sqlParam(obj Object) (any, *Error) {
	switch obj := obj.(type) {
	case *Integer:
		return obj.Value, nil
	case *Float:
		return obj.Value, nil
	case *String:
		return obj.Value, nil
	case *Boolean:
		return obj.Value, nil
	case *Nil:
		return nil, nil
	}
	return nil, newError("query() cannot bind %s", obj.Type())
}

func sqlValue(v any) Object {
	switch v := v.(type) {
	case nil:
		return NIL
	case int64:
		return &Integer{Value: v}
	case float64:
		return &Float{Value: v}
	case bool:
		return nativeBoolToBooleanObject(v)
	case string:
		return &String{Value: v}
	case []byte:
		return &String{Value: string(v)}
	case time.Time:
		return &String{Value: v.Format(time.RFC3339Nano)}
	}
	return &String{Value: fmt.Sprint(v)}
}
