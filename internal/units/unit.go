package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// dimension exponents: length, mass, time, temperature.
type dimension [4]int

func (d dimension) add(o dimension) dimension {
	for i := range d {
		d[i] += o[i]
	}
	return d
}

func (d dimension) scale(n int) dimension {
	for i := range d {
		d[i] *= n
	}
	return d
}

// Unit is a parsed unit expression.
// The zero value means "no unit" and is rejected by validation.
type Unit struct {
	symbol string
	factor float64
	dim    dimension
}

const (
	secondsPerDay  = 86400.0
	secondsPerYear = 365.25 * secondsPerDay
)

var registry = map[string]Unit{
	"m":  {factor: 1, dim: dimension{1, 0, 0, 0}},
	"km": {factor: 1e3, dim: dimension{1, 0, 0, 0}},
	"cm": {factor: 1e-2, dim: dimension{1, 0, 0, 0}},
	"mm": {factor: 1e-3, dim: dimension{1, 0, 0, 0}},

	"kg": {factor: 1, dim: dimension{0, 1, 0, 0}},
	"g":  {factor: 1e-3, dim: dimension{0, 1, 0, 0}},

	"s":     {factor: 1, dim: dimension{0, 0, 1, 0}},
	"min":   {factor: 60, dim: dimension{0, 0, 1, 0}},
	"h":     {factor: 3600, dim: dimension{0, 0, 1, 0}},
	"hr":    {factor: 3600, dim: dimension{0, 0, 1, 0}},
	"day":   {factor: secondsPerDay, dim: dimension{0, 0, 1, 0}},
	"d":     {factor: secondsPerDay, dim: dimension{0, 0, 1, 0}},
	"yr":    {factor: secondsPerYear, dim: dimension{0, 0, 1, 0}},
	"year":  {factor: secondsPerYear, dim: dimension{0, 0, 1, 0}},
	"a":     {factor: secondsPerYear, dim: dimension{0, 0, 1, 0}},
	"month": {factor: secondsPerYear / 12, dim: dimension{0, 0, 1, 0}},

	"W": {factor: 1, dim: dimension{2, 1, -3, 0}},
	"J": {factor: 1, dim: dimension{2, 1, -2, 0}},

	"K":          {factor: 1, dim: dimension{0, 0, 0, 1}},
	"delta_degC": {factor: 1, dim: dimension{0, 0, 0, 1}},

	"dimensionless": {factor: 1},
}

// Parse parses a unit expression.
func Parse(s string) (Unit, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return Unit{}, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	toks, err := lex(src)
	if err != nil {
		return Unit{}, err
	}

	p := &parser{toks: toks, src: src}
	u, err := p.expr()
	if err != nil {
		return Unit{}, err
	}
	if p.pos != len(p.toks) {
		return Unit{}, fmt.Errorf("%w: unexpected %q in %q", ErrSyntax, p.toks[p.pos].text, src)
	}

	if u.factor == 0 || math.IsInf(u.factor, 0) || math.IsNaN(u.factor) {
		return Unit{}, fmt.Errorf("%w: scale of %q out of range", ErrSyntax, src)
	}

	u.symbol = src
	return u, nil
}

// MustParse is like Parse but panics on error. It is meant for unit
// literals in package-level variables.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u Unit) String() string { return u.symbol }

// IsZero reports whether u is the "no unit" zero value.
func (u Unit) IsZero() bool { return u.symbol == "" }

// Compatible reports whether u and o share a dimension.
func (u Unit) Compatible(o Unit) bool { return !u.IsZero() && !o.IsZero() && u.dim == o.dim }

// Dimensionless reports whether u has no dimension.
func (u Unit) Dimensionless() bool { return !u.IsZero() && u.dim == dimension{} }

func (u Unit) Mul(o Unit) Unit {
	return Unit{
		symbol: joinSymbol(u.symbol, "*", o.symbol),
		factor: u.factor * o.factor,
		dim:    u.dim.add(o.dim),
	}
}

func (u Unit) Div(o Unit) Unit {
	return Unit{
		symbol: joinSymbol(u.symbol, "/", o.symbol),
		factor: u.factor / o.factor,
		dim:    u.dim.add(o.dim.scale(-1)),
	}
}

func (u Unit) pow(n int) Unit {
	return Unit{factor: math.Pow(u.factor, float64(n)), dim: u.dim.scale(n)}
}

// convert returns the factor that takes magnitudes in u to magnitudes in o.
func (u Unit) convert(o Unit) (float64, error) {
	if !u.Compatible(o) {
		return 0, &UnitError{From: u, To: o}
	}
	return u.factor / o.factor, nil
}

func joinSymbol(a, op, b string) string {
	if strings.ContainsAny(b, "*/ ") {
		b = "(" + b + ")"
	}
	return a + op + b
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokMul
	tokDiv
	tokPow
	tokMinus
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '*':
			if i+1 < len(rs) && rs[i+1] == '*' {
				toks = append(toks, token{tokPow, "**"})
				i += 2
				continue
			}
			toks = append(toks, token{tokMul, "*"})
			i++
		case r == '/':
			toks = append(toks, token{tokDiv, "/"})
			i++
		case r == '^':
			toks = append(toks, token{tokPow, "^"})
			i++
		case r == '-':
			toks = append(toks, token{tokMinus, "-"})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q in %q", ErrSyntax, r, src)
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// expr := term (('*' | '/' | juxtaposition) term)*
func (p *parser) expr() (Unit, error) {
	u, err := p.term()
	if err != nil {
		return Unit{}, err
	}

	for {
		t, ok := p.peek()
		if !ok {
			return u, nil
		}

		switch t.kind {
		case tokMul:
			p.pos++
			v, err := p.term()
			if err != nil {
				return Unit{}, err
			}
			u = u.Mul(v)
		case tokDiv:
			p.pos++
			v, err := p.term()
			if err != nil {
				return Unit{}, err
			}
			u = u.Div(v)
		case tokIdent, tokNumber, tokLParen:
			v, err := p.term()
			if err != nil {
				return Unit{}, err
			}
			u = u.Mul(v)
		default:
			return u, nil
		}
	}
}

// term := factor (('^' | '**') '-'? integer)?
func (p *parser) term() (Unit, error) {
	u, err := p.factor()
	if err != nil {
		return Unit{}, err
	}

	t, ok := p.peek()
	if !ok || t.kind != tokPow {
		return u, nil
	}
	p.pos++

	sign := 1
	if t, ok := p.peek(); ok && t.kind == tokMinus {
		sign = -1
		p.pos++
	}

	t, ok = p.peek()
	if !ok || t.kind != tokNumber {
		return Unit{}, fmt.Errorf("%w: missing exponent in %q", ErrSyntax, p.src)
	}
	p.pos++

	n, err := strconv.ParseInt(t.text, 10, 16)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: exponent %q in %q must be a small integer", ErrSyntax, t.text, p.src)
	}

	return u.pow(sign * int(n)), nil
}

// factor := identifier | number | '(' expr ')'
func (p *parser) factor() (Unit, error) {
	t, ok := p.peek()
	if !ok {
		return Unit{}, fmt.Errorf("%w: unexpected end of %q", ErrSyntax, p.src)
	}
	p.pos++

	switch t.kind {
	case tokIdent:
		u, ok := registry[t.text]
		if !ok {
			return Unit{}, fmt.Errorf("%w: %q in %q", ErrUnknownUnit, t.text, p.src)
		}
		return u, nil
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil || v <= 0 {
			return Unit{}, fmt.Errorf("%w: bad scale %q in %q", ErrSyntax, t.text, p.src)
		}
		return Unit{factor: v}, nil
	case tokLParen:
		u, err := p.expr()
		if err != nil {
			return Unit{}, err
		}
		if t, ok := p.peek(); !ok || t.kind != tokRParen {
			return Unit{}, fmt.Errorf("%w: unbalanced parentheses in %q", ErrSyntax, p.src)
		}
		p.pos++
		return u, nil
	default:
		return Unit{}, fmt.Errorf("%w: unexpected %q in %q", ErrSyntax, t.text, p.src)
	}
}
