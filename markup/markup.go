// Package markup builds element trees from an HTML-like document:
//
//	<View class="card" id="profile">
//	  <Label class="title">Hello</Label>
//	  <Button title="Save" enabled="true"/>
//	</View>
//
// Tag names are matched case-insensitively against the host's tags.
// Attribute names are kebab-case ("background-color" becomes
// backgroundColor) because the tokenizer lower-cases them.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/stack"
)

// Build creates the elements described by r. Top-level elements are added to
// parent when it is non-nil and non-empty. The returned stack holds the
// top-level elements.
func Build(env *stack.Env, parent *stack.Stack, r io.Reader) (*stack.Stack, error) {
	tags := make(map[string]string)
	for _, t := range env.Tree().Host().Tags() {
		tags[strings.ToLower(t)] = t
	}

	var (
		open []*stack.Stack
		top  []any
	)
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return env.Wrap(top...), nil
			}
			return nil, fmt.Errorf("markup: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			tag, ok := tags[tok.Data]
			if !ok {
				return nil, element.ErrUnknownTag(fmt.Sprintf("markup: <%s> is not a known tag", tok.Data))
			}
			s, err := env.Create(tag, attributes(tok.Attr))
			if err != nil {
				return nil, fmt.Errorf("markup: %w", err)
			}
			switch {
			case len(open) > 0:
				open[len(open)-1].Add(s, nil)
			case parent != nil && parent.Len() > 0:
				parent.Add(s, nil)
			}
			if len(open) == 0 {
				top = append(top, s)
			}
			if tt == html.StartTagToken {
				open = append(open, s)
			}

		case html.EndTagToken:
			name := strings.ToLower(z.Token().Data)
			for i := len(open) - 1; i >= 0; i-- {
				if strings.ToLower(open[i].Context().Tag()) == name {
					open = open[:i]
					break
				}
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text != "" && len(open) > 0 {
				open[len(open)-1].SetAttr("text", text)
			}
		}
	}
}

// BuildString is Build over a string.
func BuildString(env *stack.Env, parent *stack.Stack, doc string) (*stack.Stack, error) {
	return Build(env, parent, strings.NewReader(doc))
}

func attributes(attrs []html.Attribute) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		switch a.Key {
		case "class":
			out["className"] = a.Val
		case "id", "text", "title":
			out[a.Key] = a.Val
		default:
			out[camel(a.Key)] = scalar(a.Val)
		}
	}
	return out
}

// camel turns kebab-case into camelCase.
func camel(key string) string {
	parts := strings.Split(key, "-")
	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return sb.String()
}

func scalar(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}
