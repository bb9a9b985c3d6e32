package query

import "regexp"

// Category names shared between the planner and the store schemas. The
// child table rows use the same vocabulary, so a constraint value can be
// bound directly as a query parameter.
const (
	CategoryAxis    = "axis"
	CategoryFeature = "feature"
	CategoryScript  = "script"
	CategoryTable   = "table"
)

// Constraint is one independent "font must also have a matching child row"
// condition. The store renders each constraint with a fresh alias and binds
// the values as positional parameters, never interpolating them into query
// text.
type Constraint struct {
	// Category selects the child table vocabulary. Codepoint constraints
	// use the dedicated codepoints table and leave Category empty.
	Category string

	// Tag is the required child row value for tag categories.
	Tag string

	// Codepoint is the required covered codepoint when Category is empty.
	Codepoint rune

	// Exists requires at least one child row of Category without pinning
	// a value; used for the variable-font constraint.
	Exists bool
}

// Plan is the store-agnostic representation of one filtered lookup.
// Constraints appear in a fixed category order so that generated queries
// are deterministic and testable by structural comparison. Name patterns
// are never pushed into the store query; they ride along for in-process
// filtering of the candidate set.
type Plan struct {
	Constraints []Constraint
	Names       []*regexp.Regexp
}

// BuildPlan translates criteria into an ordered constraint list. Order is
// fixed: variable, axes, features, scripts, tables, codepoints.
func BuildPlan(c *Criteria) *Plan {
	plan := &Plan{Names: c.Names}

	if c.Variable {
		plan.Constraints = append(plan.Constraints, Constraint{
			Category: CategoryAxis,
			Exists:   true,
		})
	}

	for _, group := range []struct {
		category string
		tags     []string
	}{
		{CategoryAxis, c.Axes},
		{CategoryFeature, c.Features},
		{CategoryScript, c.Scripts},
		{CategoryTable, c.Tables},
	} {
		for _, tag := range group.tags {
			plan.Constraints = append(plan.Constraints, Constraint{
				Category: group.category,
				Tag:      tag,
			})
		}
	}

	for _, set := range c.CodepointSets {
		for _, cp := range set {
			plan.Constraints = append(plan.Constraints, Constraint{
				Codepoint: cp,
			})
		}
	}

	return plan
}

// WantsNames reports whether candidates need their name strings loaded for
// in-process filtering.
func (p *Plan) WantsNames() bool {
	return len(p.Names) > 0
}

// MatchNames applies the plan's name patterns to a candidate's name
// strings. Every pattern must match at least one string.
func (p *Plan) MatchNames(names []string) bool {
	return namesMatch(p.Names, names)
}

func namesMatch(patterns []*regexp.Regexp, names []string) bool {
	for _, re := range patterns {
		matched := false
		for _, name := range names {
			if re.MatchString(name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
