// Package convx coerces loosely typed bus payload values. In-process
// publishers send native Go numbers; JSON-decoded payloads arrive as
// float64. Consumers should not care which.
package convx

// AsInt converts any numeric value to int. Fractional parts truncate.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
