package filter

import "fmt"

// Context resolves field paths for one evaluation.
type Context interface {
	Resolve(path []string) (interface{}, bool)
}

// Evaluate walks the compiled expression against ctx.
func Evaluate(expr Expr, ctx Context) (bool, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *NotExpr:
		v, err := Evaluate(e.Expr, ctx)
		return !v && err == nil, err
	case *BinaryExpr:
		left, err := Evaluate(e.Left, ctx)
		if err != nil {
			return false, err
		}
		switch e.Op {
		case "AND":
			if !left {
				return false, nil
			}
		case "OR":
			if left {
				return true, nil
			}
		default:
			return false, fmt.Errorf("unknown binary op %q", e.Op)
		}
		return Evaluate(e.Right, ctx)
	case *ComparisonExpr:
		left, err := resolve(e.Left, ctx)
		if err != nil {
			return false, err
		}
		right, err := resolve(e.Right, ctx)
		if err != nil {
			return false, err
		}
		return compare(e.Op, left, right, e.re)
	default:
		return false, fmt.Errorf("unknown expr type %T", expr)
	}
}

func resolve(op Operand, ctx Context) (interface{}, error) {
	switch o := op.(type) {
	case *LiteralOperand:
		return o.Value, nil
	case *FieldOperand:
		v, ok := ctx.Resolve(o.Path)
		if !ok {
			return nil, fmt.Errorf("unknown field %v", o.Path)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown operand type %T", op)
	}
}
