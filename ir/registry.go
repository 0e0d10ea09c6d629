package ir

// signatureRegistry ensures function type deduplication.
// SPIR-V requires that each unique type is declared exactly once.
type signatureRegistry struct {
	types map[string]*Type
}

func (r *signatureRegistry) lookup(key string) *Type {
	return r.types[key]
}

func (r *signatureRegistry) add(key string, t *Type) {
	if r.types == nil {
		r.types = make(map[string]*Type, 16)
	}
	r.types[key] = t
}

// signatureKey creates a unique key for a signature. Types are identified by
// their owning library and name, which are unique within a module.
func signatureKey(ret *Type, params []*Type) string {
	b := make([]byte, 0, 64)
	b = append(b, "fn:"...)
	b = appendTypeKey(b, ret)
	b = append(b, '(')
	for i, p := range params {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendTypeKey(b, p)
	}
	b = append(b, ')')
	return string(b)
}

func appendTypeKey(b []byte, t *Type) []byte {
	if t.Library != nil {
		b = append(b, t.Library.Name...)
		b = append(b, '.')
	}
	return append(b, t.Name...)
}

// signatureName builds the display name of a function type.
func signatureName(ret *Type, params []*Type) string {
	b := make([]byte, 0, 32)
	b = append(b, '(')
	for i, p := range params {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, p.Name...)
	}
	b = append(b, ") : "...)
	b = append(b, ret.Name...)
	return string(b)
}
