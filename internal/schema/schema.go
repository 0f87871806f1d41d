package schema

import (
	"fmt"
)

// Role classifies what a column contributes to the reshape.
type Role int

const (
	RoleIgnore Role = iota
	RoleCountry
	RoleCountryCode
	RoleVariable
	RoleVariableCode
	RoleYear
)

// String returns the role name used in logs and CLI flags.
func (r Role) String() string {
	switch r {
	case RoleCountry:
		return "country"
	case RoleCountryCode:
		return "country_code"
	case RoleVariable:
		return "variable"
	case RoleVariableCode:
		return "variable_code"
	case RoleYear:
		return "year"
	default:
		return "ignore"
	}
}

// ParseRole converts a CLI/config token into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "country":
		return RoleCountry, nil
	case "country_code":
		return RoleCountryCode, nil
	case "variable":
		return RoleVariable, nil
	case "variable_code":
		return RoleVariableCode, nil
	case "year":
		return RoleYear, nil
	case "ignore":
		return RoleIgnore, nil
	default:
		return RoleIgnore, fmt.Errorf("unknown role %q", s)
	}
}

// Assignment maps column names to roles. Detection seeds it; the caller
// may override any slot before reshaping.
type Assignment struct {
	roles map[string]Role
	order []string

	// Confident reports whether detection found the country column by
	// heuristic rather than defaulting to the first column.
	Confident bool

	// LongYearColumn is set when a single column holds year values (long
	// format) rather than year-named wide columns.
	LongYearColumn string
}

// NewAssignment creates an empty assignment over the table's columns.
func NewAssignment(names []string) *Assignment {
	a := &Assignment{roles: make(map[string]Role, len(names)), order: append([]string(nil), names...)}
	for _, n := range names {
		a.roles[n] = RoleIgnore
	}
	return a
}

// Set overrides the role for a column. Country, CountryCode, Variable and
// VariableCode are single-slot roles: assigning one clears any previous
// holder.
func (a *Assignment) Set(column string, role Role) error {
	if _, ok := a.roles[column]; !ok {
		return fmt.Errorf("no such column %q", column)
	}
	switch role {
	case RoleCountry, RoleCountryCode, RoleVariable, RoleVariableCode:
		for name, r := range a.roles {
			if r == role && name != column {
				a.roles[name] = RoleIgnore
			}
		}
	}
	a.roles[column] = role
	return nil
}

// Role returns the role assigned to a column.
func (a *Assignment) Role(column string) Role {
	return a.roles[column]
}

// find returns the first column (in file order) with the given role.
func (a *Assignment) find(role Role) string {
	for _, n := range a.order {
		if a.roles[n] == role {
			return n
		}
	}
	return ""
}

// CountryColumn returns the column assigned the Country role, if any.
func (a *Assignment) CountryColumn() string { return a.find(RoleCountry) }

// CountryCodeColumn returns the column assigned the CountryCode role.
func (a *Assignment) CountryCodeColumn() string { return a.find(RoleCountryCode) }

// VariableColumn returns the column assigned the Variable role, if any.
func (a *Assignment) VariableColumn() string { return a.find(RoleVariable) }

// VariableCodeColumn returns the column assigned the VariableCode role.
func (a *Assignment) VariableCodeColumn() string { return a.find(RoleVariableCode) }

// YearColumns returns all wide year columns in file order.
func (a *Assignment) YearColumns() []string {
	var out []string
	for _, n := range a.order {
		if a.roles[n] == RoleYear && n != a.LongYearColumn {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that melting can proceed: exactly one Country column
// and, for the wide case, at least a Variable column assignment.
func (a *Assignment) Validate() error {
	if a.CountryColumn() == "" {
		return fmt.Errorf("no column assigned the country role")
	}
	if a.LongYearColumn == "" && a.VariableColumn() == "" {
		return fmt.Errorf("no column assigned the variable role")
	}
	return nil
}
