package expr

import "github.com/arclang/archetype/value"

// Resolver looks up a variable by name, returning ok=false when unresolved.
// Implementations typically wrap a scope.Context.
type Resolver func(name string) (value.Value, bool)

// Eval evaluates an RPN token stream produced by Parse against resolver,
// operating the value stack described in spec.md §4.2.
func Eval(rpn []Token, resolve Resolver) (value.Value, error) {
	var stack []value.Value

	pop := func() value.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for _, t := range rpn {
		switch t.Kind {
		case KindArray:
			stack = append(stack, value.NewStringList(t.Array))
		case KindBool:
			stack = append(stack, value.NewBool(t.Text == "true"))
		case KindString:
			stack = append(stack, value.NewString(t.Text))
		case KindVar:
			v, ok := resolve(t.Text)
			if !ok {
				return value.NullValue, &UnresolvedVariableError{Name: t.Text}
			}
			stack = append(stack, v)
		case KindNot:
			if len(stack) < 1 {
				return value.NullValue, &EvalError{Msg: "! with no operand"}
			}
			a := pop()
			b, err := a.AsBool()
			if err != nil {
				return value.NullValue, &EvalError{Msg: "! requires a boolean operand: " + err.Error()}
			}
			stack = append(stack, value.NewBool(!b))
		case KindEq, KindNeq:
			if len(stack) < 2 {
				return value.NullValue, &EvalError{Msg: "== requires two operands"}
			}
			b := pop()
			a := pop()
			eq := value.Equal(a, b)
			if t.Kind == KindNeq {
				eq = !eq
			}
			stack = append(stack, value.NewBool(eq))
		case KindAnd, KindOr:
			if len(stack) < 2 {
				return value.NullValue, &EvalError{Msg: "&&/|| requires two operands"}
			}
			b := pop()
			a := pop()
			ab, err := a.AsBool()
			if err != nil {
				return value.NullValue, &EvalError{Msg: err.Error()}
			}
			bb, err := b.AsBool()
			if err != nil {
				return value.NullValue, &EvalError{Msg: err.Error()}
			}
			var res bool
			if t.Kind == KindAnd {
				res = ab && bb
			} else {
				res = ab || bb
			}
			stack = append(stack, value.NewBool(res))
		case KindContains:
			if len(stack) < 2 {
				return value.NullValue, &EvalError{Msg: "contains requires two operands"}
			}
			b := pop()
			a := pop()
			ok, err := value.Contains(a, b)
			if err != nil {
				return value.NullValue, &EvalError{Msg: err.Error()}
			}
			stack = append(stack, value.NewBool(ok))
		}
	}

	if len(stack) != 1 {
		return value.NullValue, &EvalError{Msg: "expression did not reduce to a single value"}
	}
	return stack[0], nil
}
