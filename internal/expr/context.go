package expr

const (
	// KeyRow holds the current row value.
	KeyRow = "row"
	// KeyRowIndex holds the index of the current row, or nil.
	KeyRowIndex = "i"
	// KeyColumnKey holds the current column or group key, or nil.
	KeyColumnKey = "key"
)

// Context is the set of names visible to a formula during one evaluation.
type Context map[string]any

// Mapper is a compiled field value. Mappers are stateless and safe to share.
type Mapper func(ctx Context) any

// NewContext builds the evaluation context for one row. A negative index and
// an empty key are exposed to the formula as null.
func NewContext(row map[string]any, index int, key string, vars map[string]any) Context {
	values := make(Context, len(row)+len(vars)+3)
	for k, v := range row {
		values[k] = v
	}
	for k, v := range vars {
		values[k] = v
	}

	if row == nil {
		values[KeyRow] = nil
	} else {
		values[KeyRow] = row
	}

	if index < 0 {
		values[KeyRowIndex] = nil
	} else {
		values[KeyRowIndex] = index
	}

	if key == "" {
		values[KeyColumnKey] = nil
	} else {
		values[KeyColumnKey] = key
	}

	return values
}

// VarsContext builds a context holding only runtime variables, for fields
// that are evaluated once per node rather than per row.
func VarsContext(vars map[string]any) Context {
	return NewContext(nil, -1, "", vars)
}
