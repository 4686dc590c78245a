package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/stack"
)

// Dump writes an indented outline of every element in s and its
// descendants: tag, #id, .classes and the text property when present.
func Dump(w io.Writer, s *stack.Stack) error {
	env := s.Env()
	var walk func(el *element.Element, depth int) error
	walk = func(el *element.Element, depth int) error {
		line := strings.Repeat("  ", depth) + el.String()
		for _, name := range []string{"text", "title"} {
			if v, ok := el.Get(name); ok {
				line += fmt.Sprintf(" %s=%q", name, fmt.Sprint(v))
			}
		}
		if !el.Visible() {
			line += " hidden"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, c := range env.Children(el) {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, el := range s.Elements() {
		if err := walk(el, 0); err != nil {
			return err
		}
	}
	return nil
}
