// SPDX-License-Identifier: MIT

package catalog

import "strings"

// FilterByPrefix returns the subset of items whose resolved category name,
// trimmed and upper-cased, starts with one of the allowed prefixes.
//
// The category name resolves from category_name first, then the name field;
// items with neither cannot be categorised and are dropped. An empty prefix
// list disables filtering entirely and returns the input unchanged,
// uncategorised items included.
//
// The function is pure and safe for concurrent use.
func FilterByPrefix(items []Item, prefixes []string) []Item {
	if len(prefixes) == 0 {
		return items
	}

	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		name := it.CategoryName()
		if name == "" {
			name = it.Name()
		}
		if name == "" {
			continue
		}
		name = strings.ToUpper(strings.TrimSpace(name))
		for _, p := range clean {
			if strings.HasPrefix(name, p) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
