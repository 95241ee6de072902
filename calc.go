package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Calculator keys besides digits and operators.
const (
	KeyDelete = "del"
	KeyClear  = "clear"
	KeyPoint  = "."
)

func isOperator(c byte) bool { return c == '+' || c == '-' || c == '*' || c == '/' }

// Expression is the text typed on the calculator keypad. Its zero value displays "0".
type Expression struct {
	text string
}

// NewExpression returns an expression initialized with text, "0" when empty.
func NewExpression(text string) Expression {
	if text == "" {
		text = "0"
	}
	return Expression{text: text}
}

// String returns the text as displayed.
func (x Expression) String() string {
	if x.text == "" {
		return "0"
	}
	return x.text
}

// Input applies one key press: a digit, ".", an operator, "del" or "clear".
//
// A digit typed on a lone "0" replaces it. An operator typed after an operator replaces it.
func (x *Expression) Input(key string) error {
	text := x.String()
	switch {
	case key == KeyDelete:
		text = text[:len(text)-1]
		if text == "" {
			text = "0"
		}
	case key == KeyClear:
		text = "0"
	case len(key) == 1 && isOperator(key[0]):
		if isOperator(text[len(text)-1]) {
			text = text[:len(text)-1] + key
		} else {
			text += key
		}
	case key == KeyPoint || (len(key) == 1 && key[0] >= '0' && key[0] <= '9'):
		if text == "0" && key != KeyPoint {
			text = key
		} else {
			text += key
		}
	default:
		return fmt.Errorf("unknown key %q: %w", key, ErrInvalidExpression)
	}
	x.text = text
	return nil
}

// Evaluate computes the expression value rounded to two decimals.
func (x Expression) Evaluate() (decimal.Decimal, error) {
	return Evaluate(x.String())
}

// Evaluate parses and computes an arithmetic expression made of decimal numbers, + - * /,
// unary signs and no parentheses. The result is rounded to two decimals.
func Evaluate(expr string) (decimal.Decimal, error) {
	p := parser{src: strings.ReplaceAll(expr, " ", "")}
	if p.src == "" {
		return decimal.Zero, fmt.Errorf("empty expression: %w", ErrInvalidExpression)
	}
	v, err := p.sum()
	if err != nil {
		return decimal.Zero, err
	}
	if p.pos != len(p.src) {
		return decimal.Zero, fmt.Errorf("unexpected %q at %d in %q: %w", p.src[p.pos], p.pos, expr, ErrInvalidExpression)
	}
	return roundAmount(v), nil
}

// parser is a recursive descent parser over
//
//	sum     := product (('+'|'-') product)*
//	product := unary (('*'|'/') unary)*
//	unary   := ('+'|'-') unary | number
type parser struct {
	src string
	pos int
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) sum() (decimal.Decimal, error) {
	v, err := p.product()
	if err != nil {
		return v, err
	}
	for op := p.peek(); op == '+' || op == '-'; op = p.peek() {
		p.pos++
		w, err := p.product()
		if err != nil {
			return v, err
		}
		if op == '+' {
			v = v.Add(w)
		} else {
			v = v.Sub(w)
		}
	}
	return v, nil
}

func (p *parser) product() (decimal.Decimal, error) {
	v, err := p.unary()
	if err != nil {
		return v, err
	}
	for op := p.peek(); op == '*' || op == '/'; op = p.peek() {
		p.pos++
		w, err := p.unary()
		if err != nil {
			return v, err
		}
		if op == '*' {
			v = v.Mul(w)
			continue
		}
		if w.IsZero() {
			return v, ErrDivisionByZero
		}
		v = v.Div(w)
	}
	return v, nil
}

func (p *parser) unary() (decimal.Decimal, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return v.Neg(), err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.number()
}

func (p *parser) number() (decimal.Decimal, error) {
	start := p.pos
	digits, points := 0, 0
	for ; p.pos < len(p.src); p.pos++ {
		c := p.src[p.pos]
		if c == '.' {
			points++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		digits++
	}
	lit := p.src[start:p.pos]
	if digits == 0 || points > 1 {
		if lit == "" && p.pos < len(p.src) {
			return decimal.Zero, fmt.Errorf("unexpected %q at %d: %w", p.src[p.pos], p.pos, ErrInvalidExpression)
		}
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", lit, ErrInvalidExpression)
	}
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	if strings.HasSuffix(lit, ".") {
		lit += "0"
	}
	return decimal.NewFromString(lit)
}
