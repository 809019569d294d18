package expr

// Parse runs the shunting-yard algorithm over src's tokens, producing an
// RPN token stream (spec.md §4.2). Fails with FormatError on unmatched
// parentheses or a malformed operand count.
func Parse(src string) ([]Token, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return toRPN(toks)
}

func toRPN(toks []Token) ([]Token, error) {
	var output []Token
	var ops []Token
	operandBalance := 0

	popWhile := func(cond func(top Token) bool) {
		for len(ops) > 0 && cond(ops[len(ops)-1]) {
			output = append(output, ops[len(ops)-1])
			ops = ops[:len(ops)-1]
		}
	}

	for _, t := range toks {
		switch {
		case t.Kind == KindArray || t.Kind == KindBool || t.Kind == KindString || t.Kind == KindVar:
			output = append(output, t)
			operandBalance++
		case t.Kind == KindLParen:
			ops = append(ops, t)
		case t.Kind == KindRParen:
			found := false
			popWhile(func(top Token) bool { return top.Kind != KindLParen })
			if len(ops) > 0 && ops[len(ops)-1].Kind == KindLParen {
				ops = ops[:len(ops)-1]
				found = true
			}
			if !found {
				return nil, &FormatError{Msg: "unmatched closing parenthesis"}
			}
		case t.Kind.isOperator():
			prec := t.Kind.precedence()
			popWhile(func(top Token) bool {
				return top.Kind.isOperator() && top.Kind.precedence() >= prec
			})
			ops = append(ops, t)
			if t.Kind == KindNot {
				// unary: consumes exactly one operand, produces one
			} else {
				operandBalance--
			}
		}
	}
	popWhile(func(top Token) bool {
		if top.Kind == KindLParen {
			return false
		}
		return true
	})
	for _, t := range ops {
		if t.Kind == KindLParen {
			return nil, &FormatError{Msg: "unmatched opening parenthesis"}
		}
		output = append(output, t)
	}
	if operandBalance != 1 {
		return nil, &FormatError{Msg: "operator without sufficient operands"}
	}
	return output, nil
}
