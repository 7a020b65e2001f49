package filter

import (
	"testing"
)

// mapCtx implements Context over a flat map keyed by dotted path.
type mapCtx map[string]interface{}

func (m mapCtx) Resolve(path []string) (interface{}, bool) {
	key := ""
	for i, p := range path {
		if i > 0 {
			key += "."
		}
		key += p
	}
	v, ok := m[key]
	return v, ok
}

func delivery(sender, recipient, header string) mapCtx {
	return mapCtx{
		"sender":          sender,
		"recipient":       recipient,
		"header":          header,
		"message.subject": "Re: weekly update",
	}
}

func TestEvaluate(t *testing.T) {
	d := delivery("Ken.Lay@enron.com", "all.worldwide@enron.com", "To")

	cases := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{name: "empty matches all", expr: "", want: true},
		{name: "blank matches all", expr: "   ", want: true},
		{name: "eq case-insensitive", expr: `sender == "ken.lay@enron.com"`, want: true},
		{name: "neq", expr: `header != "Cc"`, want: true},
		{name: "contains", expr: `recipient contains "ALL."`, want: true},
		{name: "startswith", expr: `recipient startswith "all"`, want: true},
		{name: "endswith", expr: `sender endswith "@enron.com"`, want: true},
		{name: "endswith false", expr: `sender endswith "@aol.com"`, want: false},
		{name: "matches", expr: `message.subject matches "^Re:"`, want: true},
		{name: "not", expr: `NOT recipient contains "all."`, want: false},
		{name: "and", expr: `sender endswith "@enron.com" AND header == "To"`, want: true},
		{name: "and short-circuit", expr: `header == "Cc" AND bogus == "x"`, want: false},
		{name: "or", expr: `header == "Cc" OR header == "To"`, want: true},
		{name: "or short-circuit", expr: `header == "To" OR bogus == "x"`, want: true},
		{
			name: "parens and precedence",
			expr: `sender endswith "@enron.com" AND NOT (recipient contains "all." OR header == "Bcc")`,
			want: false,
		},
		{name: "bool literal", expr: "true", want: true},
		{name: "lowercase keywords", expr: `not header == "Cc" and true`, want: true},
		{name: "single quotes", expr: `header == 'To'`, want: true},
		{name: "escaped quote", expr: `message.subject != "say \"hi\""`, want: true},
		{name: "unknown field", expr: `bogus == "x"`, wantErr: true},
		{name: "missing operator", expr: `sender "x"`, wantErr: true},
		{name: "unknown word operator", expr: `sender like "x"`, wantErr: true},
		{name: "unterminated string", expr: `sender == "x`, wantErr: true},
		{name: "unbalanced paren", expr: `(sender == "x"`, wantErr: true},
		{name: "trailing tokens", expr: `sender == "x" "y"`, wantErr: true},
		{name: "bad regex", expr: `sender matches "("`, wantErr: true},
		{name: "single equals", expr: `sender = "x"`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.expr)
			if err != nil {
				if !tc.wantErr {
					t.Fatalf("Parse(%q) error: %v", tc.expr, err)
				}
				return
			}
			got, err := Evaluate(expr, d)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.expr, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tc.expr, err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestParse_PrecompilesRegex(t *testing.T) {
	expr, err := Parse(`sender matches "^[a-z]+@corp\\.com$"`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	c, ok := expr.(*ComparisonExpr)
	if !ok {
		t.Fatalf("expected *ComparisonExpr, got %T", expr)
	}
	if c.re == nil {
		t.Fatal("regex was not compiled at parse time")
	}
	ok, err = Evaluate(expr, delivery("bob@corp.com", "x@y.com", "To"))
	if err != nil || !ok {
		t.Errorf("Evaluate = %v, %v; want true, nil", ok, err)
	}
}

func TestCompare_TypeErrors(t *testing.T) {
	if _, err := compare(OpContains, true, "x", nil); err == nil {
		t.Error("contains on bool should fail")
	}
	if _, err := compare(OpEndsWith, "x", false, nil); err == nil {
		t.Error("endswith with bool pattern should fail")
	}
	if !equal(true, true) || equal(true, "true") {
		t.Error("bool equality mismatch")
	}
}
