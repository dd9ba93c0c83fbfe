package keymap

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

var bindingType = reflect.TypeOf(key.Binding{})

// ApplyOverrides rebinds key.Binding fields of the struct km points to.
// Override keys are the snake_case field names; the help description of
// the replaced binding is kept and its help key becomes the first new key.
//
//	km := keymap.Default()
//	ApplyOverrides(&km, map[string][]string{"page_down": {"space"}})
func ApplyOverrides(km interface{}, overrides map[string][]string) {
	if len(overrides) == 0 {
		return
	}
	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	applyTo(v.Elem(), overrides)
}

func applyTo(v reflect.Value, overrides map[string][]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		sf := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if sf.Anonymous && field.Kind() == reflect.Struct {
			applyTo(field, overrides)
			continue
		}
		if sf.Type != bindingType {
			continue
		}

		keys := overrides[camelToSnake(sf.Name)]
		if len(keys) == 0 {
			continue
		}
		desc := field.Interface().(key.Binding).Help().Desc
		field.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], desc),
		)))
	}
}

// camelToSnake converts a field name to its config key: PageDown -> page_down.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
