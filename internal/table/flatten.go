package table

// Flatten expands a column of nested provider payloads into one flat
// record. Each cell is either a single JSON object (one row) or an array
// of objects (one row per element); fragments are concatenated in input
// order with column-union semantics and a fresh row index. Cells of any
// other shape contribute no rows. With no fragments at all the result is
// the empty record.
func Flatten(cells []any) *Record {
	out := New()
	for _, cell := range cells {
		switch c := cell.(type) {
		case map[string]any:
			out.AppendRow(objectRow(c))
		case []any:
			for _, elem := range c {
				if obj, ok := elem.(map[string]any); ok {
					out.AppendRow(objectRow(obj))
				}
			}
		}
	}
	return out
}

func objectRow(obj map[string]any) map[string]Value {
	row := make(map[string]Value, len(obj))
	for k, v := range obj {
		row[k] = Some(v)
	}
	return row
}
