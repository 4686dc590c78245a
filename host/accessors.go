package host

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// UcFirst upper-cases the first rune of s.
func UcFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SetterName maps a generic property name onto the toolkit setter name.
// "value" becomes "SetValue".
func SetterName(name string) string {
	return "Set" + UcFirst(name)
}

// GetterName maps a generic property name onto the toolkit getter name.
func GetterName(name string) string {
	return "Get" + UcFirst(name)
}

// ErrNoAccessor is returned by Accessors.Set when neither a setter method nor
// a settable field exists for a name.
type ErrNoAccessor struct {
	Type string
	Name string
}

func (e *ErrNoAccessor) Error() string {
	return fmt.Sprintf("%s has no accessor for %q", e.Type, e.Name)
}

// Accessors bridges generic property names onto a toolkit object that
// follows the Set<Name>/Get<Name> convention. When no method exists it falls
// back to an exported <Name> field, which is how most Go widget libraries
// expose plain state.
type Accessors struct {
	target reflect.Value
}

// Reflect returns the accessor bridge for target.
func Reflect(target any) Accessors {
	return Accessors{target: reflect.ValueOf(target)}
}

// Get reads name through Get<Name>(), <Name>() or the <Name> field.
func (a Accessors) Get(name string) (any, bool) {
	if !a.target.IsValid() || name == "" {
		return nil, false
	}
	for _, method := range []string{GetterName(name), UcFirst(name)} {
		m := a.target.MethodByName(method)
		if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
			continue
		}
		return m.Call(nil)[0].Interface(), true
	}
	f, ok := a.field(name)
	if !ok || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// Set writes value through Set<Name>(v) or the <Name> field.
func (a Accessors) Set(name string, value any) error {
	if !a.target.IsValid() || name == "" {
		return &ErrNoAccessor{Type: "<nil>", Name: name}
	}
	if m := a.target.MethodByName(SetterName(name)); m.IsValid() && m.Type().NumIn() == 1 {
		arg, err := coerce(value, m.Type().In(0))
		if err != nil {
			return fmt.Errorf("%s: %w", SetterName(name), err)
		}
		m.Call([]reflect.Value{arg})
		return nil
	}
	f, ok := a.field(name)
	if !ok || !f.CanSet() {
		return &ErrNoAccessor{Type: a.target.Type().String(), Name: name}
	}
	arg, err := coerce(value, f.Type())
	if err != nil {
		return fmt.Errorf("field %s: %w", UcFirst(name), err)
	}
	f.Set(arg)
	return nil
}

func (a Accessors) field(name string) (reflect.Value, bool) {
	v := reflect.Indirect(a.target)
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	f := v.FieldByName(UcFirst(name))
	return f, f.IsValid()
}

// coerce converts value to t. Numeric kinds convert between each other;
// everything else must be assignable.
func coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return v.Convert(t), nil
	}
	if v.Kind() == reflect.String && t.Kind() == reflect.String {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
