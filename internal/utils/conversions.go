package utils

// ToStringSlice converts a decoded claim value into a string slice.
// A lone string becomes a single element slice; non string elements are dropped.
func ToStringSlice(value any) []string {
	stringSlice := make([]string, 0)
	switch v := value.(type) {
	case string:
		if v != "" {
			stringSlice = append(stringSlice, v)
		}
	case []string:
		stringSlice = append(stringSlice, v...)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				stringSlice = append(stringSlice, s)
			}
		}
	}
	return stringSlice
}
