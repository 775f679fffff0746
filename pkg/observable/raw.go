package observable

// Valuer is implemented by reactive containers that can hand out their
// plain value.
type Valuer interface {
	RawValue() any
}

// Raw unwraps reactive containers in v, descending into maps and slices of
// any. Plain values are returned unchanged.
func Raw(v any) any {
	switch t := v.(type) {
	case Valuer:
		return Raw(t.RawValue())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Raw(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Raw(e)
		}
		return out
	default:
		return v
	}
}
