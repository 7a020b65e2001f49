package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator is a comparison operator.
type Operator string

const (
	OpEq         Operator = "=="
	OpNeq        Operator = "!="
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startswith"
	OpEndsWith   Operator = "endswith"
	OpMatches    Operator = "matches"
)

var wordOperators = map[string]Operator{
	"contains":   OpContains,
	"startswith": OpStartsWith,
	"endswith":   OpEndsWith,
	"matches":    OpMatches,
}

// compare applies op to two resolved values. String comparisons are
// case-insensitive except for matches, where the pattern decides.
func compare(op Operator, left, right interface{}, re *regexp.Regexp) (bool, error) {
	switch op {
	case OpEq:
		return equal(left, right), nil
	case OpNeq:
		return !equal(left, right), nil
	}

	ls, ok := left.(string)
	if !ok {
		return false, fmt.Errorf("%s: left operand must be a string, got %T", op, left)
	}
	rs, ok := right.(string)
	if !ok {
		return false, fmt.Errorf("%s: right operand must be a string, got %T", op, right)
	}
	switch op {
	case OpContains:
		return strings.Contains(strings.ToLower(ls), strings.ToLower(rs)), nil
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(ls), strings.ToLower(rs)), nil
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(ls), strings.ToLower(rs)), nil
	case OpMatches:
		if re == nil {
			var err error
			if re, err = regexp.Compile(rs); err != nil {
				return false, fmt.Errorf("matches: invalid regex %q: %w", rs, err)
			}
		}
		return re.MatchString(ls), nil
	}
	return false, fmt.Errorf("unknown operator: %s", op)
}

func equal(left, right interface{}) bool {
	if lb, ok := left.(bool); ok {
		rb, ok := right.(bool)
		return ok && lb == rb
	}
	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return strings.EqualFold(ls, rs)
	}
	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}
