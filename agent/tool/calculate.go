package tool

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

const ToolCalculate = "calculate"

// Accepts digits, whitespace, decimal points, operators, and parentheses.
var exprPattern = regexp.MustCompile(`^[\d\s\+\-\*/%\^\(\)\.]+$`)

type calculationResult struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

func calculateDefinition() Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolCalculate,
			Desc: "Evaluate an arithmetic expression, e.g. for fee or return computations.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"expression": {Type: schema.String, Desc: "Expression to evaluate, numbers and + - * / % ^ ( ) only.", Required: true},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			expression := stringArg(args, "expression")
			if err := validateExpression(expression); err != nil {
				return nil, nil, err
			}

			result, err := evaluateExpression(expression)
			if err != nil {
				return nil, nil, err
			}

			return calculationResult{Expression: expression, Result: result}, nil, nil
		},
	}
}

func validateExpression(expression string) error {
	if expression == "" {
		return fmt.Errorf("%w: expression is empty", contractx.ErrValidation)
	}
	if !exprPattern.MatchString(expression) {
		return fmt.Errorf("%w: expression contains invalid characters", contractx.ErrValidation)
	}

	balance := 0
	for _, ch := range expression {
		switch ch {
		case '(':
			balance++
		case ')':
			balance--
			if balance < 0 {
				return fmt.Errorf("%w: expression has unbalanced parentheses", contractx.ErrValidation)
			}
		}
	}
	if balance != 0 {
		return fmt.Errorf("%w: expression has unbalanced parentheses", contractx.ErrValidation)
	}
	return nil
}

func evaluateExpression(expression string) (float64, error) {
	p := &exprParser{input: expression}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.hasNext() {
		return 0, fmt.Errorf("unexpected token at position %d", p.pos)
	}
	return value, nil
}

// exprParser is a small recursive-descent evaluator over + - * / % ^ with
// the usual precedence and right-associative ^.
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch {
		case p.match('+'):
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left += right
		case p.match('-'):
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch {
		case p.match('*'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.match('/'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case p.match('%'):
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.match('^') {
		right, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(left, right), nil
	}
	return left, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.match('+') {
		return p.parseUnary()
	}
	if p.match('-') {
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.match('(') {
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if !p.match(')') {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		return value, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	hasDigit := false
	hasDot := false

	for p.hasNext() {
		ch := p.peek()
		if ch >= '0' && ch <= '9' {
			hasDigit = true
			p.pos++
			continue
		}
		if ch == '.' {
			if hasDot {
				return 0, fmt.Errorf("invalid number format at position %d", p.pos)
			}
			hasDot = true
			p.pos++
			continue
		}
		break
	}

	if !hasDigit {
		return 0, fmt.Errorf("expected number at position %d", start)
	}

	raw := p.input[start:p.pos]
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return value, nil
}

func (p *exprParser) skipSpaces() {
	for p.hasNext() && p.peek() == ' ' {
		p.pos++
	}
}

func (p *exprParser) hasNext() bool {
	return p.pos < len(p.input)
}

func (p *exprParser) peek() byte {
	return p.input[p.pos]
}

func (p *exprParser) match(expected byte) bool {
	if p.hasNext() && p.peek() == expected {
		p.pos++
		return true
	}
	return false
}
