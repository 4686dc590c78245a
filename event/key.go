package event

import (
	"regexp"
	"sort"
	"strings"
)

// Key is a parsed event string such as "click.menu.main".
type Key struct {
	Name       string
	Namespaces []string // sorted
}

// ParseKey splits s on "." into the event name and its sorted namespace
// tokens. Empty tokens are dropped.
func ParseKey(s string) Key {
	parts := strings.Split(s, ".")
	key := Key{Name: parts[0]}
	for _, ns := range parts[1:] {
		if ns != "" {
			key.Namespaces = append(key.Namespaces, ns)
		}
	}
	sort.Strings(key.Namespaces)
	return key
}

// Namespace returns the sorted tokens joined by a space.
func (k Key) Namespace() string {
	return strings.Join(k.Namespaces, " ")
}

func (k Key) String() string {
	if len(k.Namespaces) == 0 {
		return k.Name
	}
	return k.Name + "." + strings.Join(k.Namespaces, ".")
}

// namespaceMatcher matches a stored namespace string that contains every
// token of ns in order, with any other tokens in between. Both sides are
// sorted, so the match does not depend on the order used when binding.
func namespaceMatcher(ns []string) *regexp.Regexp {
	quoted := make([]string, len(ns))
	for i, t := range ns {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?:^| )` + strings.Join(quoted, ` (?:.* )?`) + `(?: |$)`)
}

// splitEvents splits a possibly space separated list of event strings.
// An empty list yields a single empty key, which matches everything.
func splitEvents(events string) []string {
	fields := strings.Fields(events)
	if len(fields) == 0 {
		return []string{""}
	}
	return fields
}
