package lint

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// rules is the process-wide rule table. Rule packages fill it from init(),
// so it is complete before main runs and only read afterwards.
var (
	rulesMu sync.RWMutex
	rules   = make(map[string]RuleDef)
)

// Register adds a rule. It panics when the ID is empty, the rule has no
// check, or the ID is already taken, mirroring database/sql.Register.
func Register(rule RuleDef) {
	if rule.ID == "" {
		panic("lint: Register called with an empty rule ID")
	}
	if rule.Check == nil {
		panic(fmt.Sprintf("lint: rule %s has no check function", rule.ID))
	}

	rulesMu.Lock()
	defer rulesMu.Unlock()
	if _, dup := rules[rule.ID]; dup {
		panic(fmt.Sprintf("lint: rule %s registered twice", rule.ID))
	}
	rules[rule.ID] = rule
}

// GetAll returns all registered rules ordered by ID.
func GetAll() []RuleDef {
	rulesMu.RLock()
	defer rulesMu.RUnlock()

	all := make([]RuleDef, 0, len(rules))
	for _, rule := range rules {
		all = append(all, rule)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	rule, ok := rules[id]
	return rule, ok
}

// GetByGroup returns the rules of one group, ordered by ID.
func GetByGroup(group string) []RuleDef {
	return slices.DeleteFunc(GetAll(), func(r RuleDef) bool { return r.Group != group })
}

// Groups returns the distinct rule groups in name order.
func Groups() []string {
	var groups []string
	for _, rule := range GetAll() {
		if !slices.Contains(groups, rule.Group) {
			groups = append(groups, rule.Group)
		}
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered rules.
func Count() int {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	return len(rules)
}
