package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float64FromPtrWithDefault returns the first non-nil *float64 value, or the fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StrPtr returns nil for an empty string, otherwise a pointer to s.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrFromPtr dereferences p, returning "" for nil.
func StrFromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
