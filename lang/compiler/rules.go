package compiler

import "github.com/mna/ember/lang/token"

// precedence orders the binding strength of infix operators, low to high.
// parsePrecedence(p) parses anything that binds at least as tightly as p.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LPAREN:  {(*Compiler).grouping, (*Compiler).call, precCall},
		token.DOT:     {nil, (*Compiler).dot, precCall},
		token.MINUS:   {(*Compiler).unary, (*Compiler).binary, precTerm},
		token.PLUS:    {nil, (*Compiler).binary, precTerm},
		token.SLASH:   {nil, (*Compiler).binary, precFactor},
		token.STAR:    {nil, (*Compiler).binary, precFactor},
		token.BANG:    {(*Compiler).unary, nil, precNone},
		token.BANG_EQ: {nil, (*Compiler).binary, precEquality},
		token.EQ_EQ:   {nil, (*Compiler).binary, precEquality},
		token.GT:      {nil, (*Compiler).binary, precComparison},
		token.GT_EQ:   {nil, (*Compiler).binary, precComparison},
		token.LT:      {nil, (*Compiler).binary, precComparison},
		token.LT_EQ:   {nil, (*Compiler).binary, precComparison},
		token.IDENT:   {(*Compiler).variable, nil, precNone},
		token.STRING:  {(*Compiler).string_, nil, precNone},
		token.NUMBER:  {(*Compiler).number, nil, precNone},
		token.AND:     {nil, (*Compiler).and_, precAnd},
		token.FALSE:   {(*Compiler).literal, nil, precNone},
		token.NIL:     {(*Compiler).literal, nil, precNone},
		token.OR:      {nil, (*Compiler).or_, precOr},
		token.SUPER:   {(*Compiler).super_, nil, precNone},
		token.THIS:    {(*Compiler).this_, nil, precNone},
		token.TRUE:    {(*Compiler).literal, nil, precNone},
	}
}

func ruleFor(tok token.Token) parseRule {
	if r, ok := rules[tok]; ok {
		return r
	}
	return parseRule{}
}

// parsePrecedence parses the expression starting at the current token
// whose operators bind at least as tightly as p. It is the single
// mechanism that drives every expression form: a literal is just a prefix
// rule with no following infix operators at or above p.
func (c *Compiler) parsePrecedence(p precedence) {
	c.advance()
	prefix := ruleFor(c.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := p <= precAssignment
	prefix(c, canAssign)

	for p <= ruleFor(c.current.Kind).precedence {
		c.advance()
		infix := ruleFor(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQ) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(precAssignment) }
