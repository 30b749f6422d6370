package libretro

import (
	"strings"
	"unsafe"
)

// VariableDecl is one option declared by a core through SET_VARIABLES.
type VariableDecl struct {
	Key         string
	Description string
	Values      []string // first entry is the core's default
}

// Default returns the core's default value for the option.
func (d VariableDecl) Default() string {
	if len(d.Values) == 0 {
		return ""
	}
	return d.Values[0]
}

// ParseVariableDecl splits a declaration of the form
// "Description; value1|value2|...".
func ParseVariableDecl(key, decl string) VariableDecl {
	d := VariableDecl{Key: key}
	desc, values, ok := strings.Cut(decl, ";")
	d.Description = strings.TrimSpace(desc)
	if !ok {
		return d
	}
	for _, v := range strings.Split(strings.TrimSpace(values), "|") {
		if v != "" {
			d.Values = append(d.Values, v)
		}
	}
	return d
}

// ReadVariableDecls walks the NULL-key terminated array a core passes
// with SET_VARIABLES.
func ReadVariableDecls(data unsafe.Pointer) []VariableDecl {
	if data == nil {
		return nil
	}
	var decls []VariableDecl
	for v := (*Variable)(data); v.Key != nil; v = (*Variable)(unsafe.Add(unsafe.Pointer(v), unsafe.Sizeof(Variable{}))) {
		decls = append(decls, ParseVariableDecl(GoString(v.Key), GoString(v.Value)))
	}
	return decls
}
