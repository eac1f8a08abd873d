package pattern

import "strings"

// Detector scans free text against a rule registry. Results always come back
// in registry order, whether computed or served from the cache.
//
// Two optimizations wrap the scan and must not change observable results:
// a quick-keyword pre-filter that short-circuits inputs mentioning no known
// keyword, and a bounded LRU cache of rule indices keyed by a normalized
// prefix of the input. Empty results are cached too.
type Detector struct {
	registry *Registry
	cache    *ResultCache
	keywords []string
}

// NewDetector creates a detector over the registry with its own cache of the
// given capacity.
func NewDetector(registry *Registry, cacheSize int) *Detector {
	keywords := make([]string, 0, len(registry.Keywords()))
	for _, kw := range registry.Keywords() {
		keywords = append(keywords, strings.ToLower(kw))
	}
	return &Detector{
		registry: registry,
		cache:    NewResultCache(cacheSize),
		keywords: keywords,
	}
}

// Registry returns the registry the detector scans against.
func (d *Detector) Registry() *Registry {
	return d.registry
}

// Cache returns the detector's result cache, mainly for statistics.
func (d *Detector) Cache() *ResultCache {
	return d.cache
}

// DetectAll returns every rule whose trigger matches the text, in registry
// order. Duplicate component types are allowed; one synonym set may be
// phrased two ways in the same sentence, and callers de-duplicate by type
// when they need to.
func (d *Detector) DetectAll(text string) []Rule {
	key := Key(text)

	if indices, ok := d.cache.Get(key); ok {
		return d.rulesAt(indices)
	}

	var indices []int
	if d.containsKeyword(strings.ToLower(text)) {
		for i, r := range d.registry.Rules() {
			if r.Matches(text) {
				indices = append(indices, i)
			}
		}
	}

	d.cache.Put(key, indices)
	return d.rulesAt(indices)
}

// DetectFirst returns the first matching rule in registry order.
func (d *Detector) DetectFirst(text string) (Rule, bool) {
	rules := d.DetectAll(text)
	if len(rules) == 0 {
		return Rule{}, false
	}
	return rules[0], true
}

// DetectTypes returns the matched component types de-duplicated by type,
// preserving registry order of first occurrence.
func (d *Detector) DetectTypes(text string) []Rule {
	var out []Rule
	seen := make(map[string]struct{})
	for _, r := range d.DetectAll(text) {
		if _, ok := seen[string(r.Type)]; ok {
			continue
		}
		seen[string(r.Type)] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (d *Detector) containsKeyword(lower string) bool {
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (d *Detector) rulesAt(indices []int) []Rule {
	if len(indices) == 0 {
		return nil
	}
	rules := d.registry.Rules()
	out := make([]Rule, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(rules) {
			out = append(out, rules[i])
		}
	}
	return out
}
