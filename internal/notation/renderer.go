package notation

import (
	"fmt"
	"strings"
	"unicode"
)

// Renderer is the notation-rendering capability. Render returns nil when the
// expression typesets and an error carrying the parser message otherwise.
type Renderer interface {
	Render(expr string, displayMode bool) error
}

// ParseError is returned by TexChecker for an expression that does not parse
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("TeX parse error: %s at end of input", e.Message)
	}
	return fmt.Sprintf("TeX parse error: %s at position %d", e.Message, e.Position+1)
}

// TexChecker is a strict, render-free TeX math parser. It accepts the common
// KaTeX command set and fails on unbalanced groups, undefined control
// sequences, missing arguments, double scripts and unpaired \left/\right or
// \begin/\end.
type TexChecker struct {
	extra map[string]int
}

// NewTexChecker creates a checker; extra maps additional command names
// (without backslash) to their argument counts.
func NewTexChecker(extra map[string]int) *TexChecker {
	return &TexChecker{extra: extra}
}

// Render parses expr. displayMode is accepted for interface parity; the
// grammar is the same in both modes.
func (c *TexChecker) Render(expr string, displayMode bool) error {
	p := &texParser{toks: tokenize(expr), checker: c}
	if err := p.parseExpression(stopEOF); err != nil {
		return err
	}
	return nil
}

func (c *TexChecker) arity(name string) (int, bool) {
	if n, ok := commandArity[name]; ok {
		return n, true
	}
	if n, ok := c.extra[name]; ok {
		return n, true
	}
	return 0, false
}

type tokenKind int

const (
	tokChar tokenKind = iota
	tokCommand
	tokOpen
	tokClose
	tokSup
	tokSub
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(expr string) []token {
	var toks []token
	runes := []rune(expr)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '%':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '{':
			toks = append(toks, token{kind: tokOpen, text: "{", pos: i})
		case r == '}':
			toks = append(toks, token{kind: tokClose, text: "}", pos: i})
		case r == '^':
			toks = append(toks, token{kind: tokSup, text: "^", pos: i})
		case r == '_':
			toks = append(toks, token{kind: tokSub, text: "_", pos: i})
		case r == '\\':
			start := i
			j := i + 1
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			if j == i+1 && j < len(runes) {
				j++ // single-symbol control sequence such as \{ or \,
			}
			name := string(runes[i+1 : j])
			toks = append(toks, token{kind: tokCommand, text: name, pos: start})
			i = j - 1
		default:
			toks = append(toks, token{kind: tokChar, text: string(r), pos: i})
		}
	}
	return toks
}

type stopKind int

const (
	stopEOF stopKind = iota
	stopGroup
	stopRight
	stopEnd
	stopBracket
)

type texParser struct {
	toks    []token
	pos     int
	checker *TexChecker
}

func (p *texParser) peek() *token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *texParser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func eof(msg string) error {
	return &ParseError{Message: msg, Position: -1}
}

func unexpected(t *token) error {
	return &ParseError{Message: fmt.Sprintf("Unexpected '%s'", display(t)), Position: t.pos}
}

func display(t *token) string {
	if t.kind == tokCommand {
		return `\` + t.text
	}
	return t.text
}

// parseExpression consumes atoms until the terminator for stop is reached.
// The terminator itself is left for the caller.
func (p *texParser) parseExpression(stop stopKind) error {
	hasSup, hasSub := false, false
	for {
		t := p.peek()
		if t == nil {
			switch stop {
			case stopGroup:
				return eof("Expected '}', got 'EOF'")
			case stopRight:
				return eof(`Expected '\right', got 'EOF'`)
			case stopEnd:
				return eof(`Expected '\end', got 'EOF'`)
			case stopBracket:
				return eof("Expected ']', got 'EOF'")
			}
			return nil
		}

		switch t.kind {
		case tokClose:
			if stop == stopGroup {
				return nil
			}
			return unexpected(t)
		case tokSup, tokSub:
			p.next()
			if t.kind == tokSup {
				if hasSup {
					return &ParseError{Message: "Double superscript", Position: t.pos}
				}
				hasSup = true
			} else {
				if hasSub {
					return &ParseError{Message: "Double subscript", Position: t.pos}
				}
				hasSub = true
			}
			if err := p.parseArgument(t.text); err != nil {
				return err
			}
			continue
		case tokCommand:
			switch t.text {
			case "right":
				if stop == stopRight {
					return nil
				}
				return unexpected(t)
			case "end":
				if stop == stopEnd {
					return nil
				}
				return unexpected(t)
			case "limits", "nolimits":
				p.next()
				continue
			}
		case tokChar:
			if t.text == "]" && stop == stopBracket {
				return nil
			}
		}

		hasSup, hasSub = false, false
		if err := p.parseAtom(); err != nil {
			return err
		}
	}
}

func (p *texParser) parseAtom() error {
	t := p.next()
	switch t.kind {
	case tokOpen:
		return p.parseGroupBody()
	case tokCommand:
		return p.parseCommand(t)
	}
	return nil
}

// parseGroupBody parses after an opening brace up to and including its close
func (p *texParser) parseGroupBody() error {
	if err := p.parseExpression(stopGroup); err != nil {
		return err
	}
	p.next()
	return nil
}

// parseArgument reads one argument for a command or script: a braced group
// or a single token.
func (p *texParser) parseArgument(owner string) error {
	t := p.peek()
	if t == nil {
		return eof(fmt.Sprintf("Expected group after '%s'", owner))
	}
	switch t.kind {
	case tokOpen:
		p.next()
		return p.parseGroupBody()
	case tokClose, tokSup, tokSub:
		return &ParseError{Message: fmt.Sprintf("Expected group after '%s'", owner), Position: t.pos}
	case tokCommand:
		if t.text == "right" || t.text == "end" {
			return &ParseError{Message: fmt.Sprintf("Expected group after '%s'", owner), Position: t.pos}
		}
		p.next()
		return p.parseCommand(t)
	}
	p.next()
	return nil
}

func (p *texParser) parseCommand(t *token) error {
	name := t.text
	if len([]rune(name)) == 1 && !unicode.IsLetter([]rune(name)[0]) {
		if escapedSymbols[name] {
			return nil
		}
		return &ParseError{Message: fmt.Sprintf("Undefined control sequence: %s", display(t)), Position: t.pos}
	}
	if name == "" {
		return &ParseError{Message: "Unexpected end of control sequence", Position: t.pos}
	}

	switch name {
	case "left":
		if err := p.parseDelimiter(`\left`); err != nil {
			return err
		}
		if err := p.parseExpression(stopRight); err != nil {
			return err
		}
		p.next() // \right
		return p.parseDelimiter(`\right`)
	case "middle":
		return p.parseDelimiter(`\middle`)
	case "begin":
		return p.parseEnvironment(t)
	case "sqrt":
		if n := p.peek(); n != nil && n.kind == tokChar && n.text == "[" {
			p.next()
			if err := p.parseExpression(stopBracket); err != nil {
				return err
			}
			p.next()
		}
		return p.parseArgument(`\sqrt`)
	}

	n, ok := p.checker.arity(name)
	if !ok {
		return &ParseError{Message: fmt.Sprintf("Undefined control sequence: %s", display(t)), Position: t.pos}
	}
	for i := 0; i < n; i++ {
		if err := p.parseArgument(display(t)); err != nil {
			return err
		}
	}
	return nil
}

func (p *texParser) parseDelimiter(owner string) error {
	d := p.next()
	if d == nil {
		return eof(fmt.Sprintf("Missing delimiter after '%s'", owner))
	}
	switch d.kind {
	case tokChar:
		if strings.ContainsAny(d.text, "()[]|./<>") {
			return nil
		}
	case tokCommand:
		if delimiterCommands[d.text] {
			return nil
		}
	}
	return &ParseError{Message: fmt.Sprintf("Invalid delimiter '%s' after '%s'", display(d), owner), Position: d.pos}
}

func (p *texParser) parseEnvironment(begin *token) error {
	name, err := p.readName(`\begin`)
	if err != nil {
		return err
	}
	if !environments[name] {
		return &ParseError{Message: fmt.Sprintf("No such environment: %s", name), Position: begin.pos}
	}
	if name == "array" {
		if err := p.parseArgument(`\begin{array}`); err != nil {
			return err
		}
	}
	if err := p.parseExpression(stopEnd); err != nil {
		return err
	}
	end := p.next()
	closing, err := p.readName(`\end`)
	if err != nil {
		return err
	}
	if closing != name {
		return &ParseError{Message: fmt.Sprintf(`Mismatch: \begin{%s} matched by \end{%s}`, name, closing), Position: end.pos}
	}
	return nil
}

// readName reads a literal {name} argument
func (p *texParser) readName(owner string) (string, error) {
	open := p.next()
	if open == nil {
		return "", eof(fmt.Sprintf("Expected '{' after '%s'", owner))
	}
	if open.kind != tokOpen {
		return "", &ParseError{Message: fmt.Sprintf("Expected '{' after '%s'", owner), Position: open.pos}
	}
	var b strings.Builder
	for {
		t := p.next()
		if t == nil {
			return "", eof("Expected '}', got 'EOF'")
		}
		if t.kind == tokClose {
			return b.String(), nil
		}
		b.WriteString(t.text)
	}
}
