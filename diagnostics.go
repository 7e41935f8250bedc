package injector

import (
	"fmt"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing every registered type, one
// per line and sorted by identity: whether it is currently blocked, how deep the chain to
// the wrapper that the registry hands out is, and which lazy properties are bound along it.
func (r *Registry) Status() string {
	r.mu.RLock()
	lines := make(map[string]string, len(r.entries))
	var keys []string
	for key, reg := range r.entries {
		lines[key] = fmt.Sprintf("%s - blocked: %t - wrappers: %d - properties: %s",
			key, r.guard.IsBlocked(reg.wrapper.parent), chainDepth(reg.wrapper, reg.origin), formatProperties(reg.wrapper))
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Strings(keys)

	result := strings.Builder{}
	for _, key := range keys {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(lines[key])
	}
	return result.String()
}

// chainDepth counts the types between from and to, from included.
func chainDepth(from, to *Type) int {
	depth := 0
	for t := from; t != nil && t != to; t = t.parent {
		depth++
	}
	return depth
}

// formatProperties lists the property names bound anywhere in t's chain.
func formatProperties(t *Type) string {
	seen := map[string]bool{}
	var names []string
	for c := t; c != nil; c = c.parent {
		for _, name := range c.Properties() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return "-"
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
