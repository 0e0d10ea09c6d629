package syntax

// ParamKind is the type of an attribute parameter value.
type ParamKind uint8

const (
	ParamNone ParamKind = iota
	ParamString
	ParamInteger
	ParamReal
	ParamBool
	ParamType
)

var paramKindNames = [...]string{
	ParamNone:    "none",
	ParamString:  "String",
	ParamInteger: "Integer",
	ParamReal:    "Real",
	ParamBool:    "Boolean",
	ParamType:    "Type",
}

func (k ParamKind) String() string {
	if int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return "unknown"
}

// AttributeParam is a single, optionally named, attribute argument.
type AttributeParam struct {
	Name   string
	Kind   ParamKind
	String string
	Int    int
	Real   float64
	Bool   bool
	Type   *BoundType
	Span   Span
}

// Attribute is a bracketed annotation on a type, function or field.
type Attribute struct {
	Name   string
	Params []AttributeParam
	Span   Span
}

// Attributes is an ordered attribute list.
type Attributes []Attribute

// Has reports whether an attribute with the given name is present.
func (a Attributes) Has(name string) bool {
	return a.Find(name) != nil
}

// Find returns the first attribute with the given name or nil.
func (a Attributes) Find(name string) *Attribute {
	for i := range a {
		if a[i].Name == name {
			return &a[i]
		}
	}
	return nil
}

// Param returns the parameter with the given name or nil.
func (a *Attribute) Param(name string) *AttributeParam {
	for i := range a.Params {
		if a.Params[i].Name == name {
			return &a.Params[i]
		}
	}
	return nil
}
