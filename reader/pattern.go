package reader

import (
	"unicode"

	"github.com/katalvlaran/lexd/lexd"
)

// patternLine parses one pattern line; top-level '|' yields several bodies
// of the current pattern.
func (rd *reader) patternLine(n int, src []rune) error {
	p := &lineParser{rd: rd, src: src, line: n}
	bodies, err := p.alternatives(0)
	if err != nil {
		return err
	}
	if !p.done() {
		return p.errf("unexpected %q", p.peek())
	}
	for _, b := range bodies {
		if err := rd.c.AddPattern(rd.name, n, b); err != nil {
			return err
		}
	}
	return nil
}

// alternatives reads '|'-separated element sequences up to closer (0 for
// end of line). The closing rune is left unread.
func (p *lineParser) alternatives(closer rune) ([][]lexd.PatternElement, error) {
	var (
		bodies [][]lexd.PatternElement
		cur    []lexd.PatternElement
	)
	for {
		p.skipSpace()
		if p.done() || (closer != 0 && p.peek() == closer) {
			break
		}
		if p.peek() == '|' {
			if len(cur) == 0 {
				return nil, p.errf("empty alternative")
			}
			bodies = append(bodies, cur)
			cur = nil
			p.pos++
			continue
		}
		e, err := p.element()
		if err != nil {
			return nil, err
		}
		cur = append(cur, e)
	}
	if len(cur) == 0 {
		return nil, p.errf("empty alternative")
	}
	return append(bodies, cur), nil
}

// endOfElement reports whether the parser sits on an element boundary.
func (p *lineParser) endOfElement() bool {
	if p.done() {
		return true
	}
	switch r := p.peek(); {
	case unicode.IsSpace(r), r == '|', r == ')':
		return true
	}
	return false
}

// element reads one pattern element with its tags and modifier.
func (p *lineParser) element() (lexd.PatternElement, error) {
	var e lexd.PatternElement
	left, right := p.rd.c.Sieves()

	switch ch := p.peek(); {
	case ch == '<' || ch == '>':
		// 1) Sieve marker: a lone '<' or '>'.
		p.pos++
		if !p.endOfElement() {
			return e, p.errf("sieve marker %q must stand alone", ch)
		}
		h := left
		if ch == '>' {
			h = right
		}
		return lexd.Ref(h, 1), nil

	case ch == '(':
		// 2) Anonymous pattern.
		p.pos++
		bodies, err := p.alternatives(')')
		if err != nil {
			return e, err
		}
		if p.peek() != ')' {
			return e, p.errf("missing ')'")
		}
		p.pos++
		h := p.rd.c.Names().Anonymous("pattern")
		for _, b := range bodies {
			if err := p.rd.c.AddPattern(h, p.line, b); err != nil {
				return e, err
			}
		}
		e = lexd.Ref(h, 1)

	case ch == '[':
		// 3) Anonymous lexicon: '|'-separated one-column entries.
		p.pos++
		h := p.rd.c.Names().Anonymous("lexicon")
		for {
			p.skipSpace()
			seg, err := p.segment(func(r rune) bool { return r == '|' || r == ']' || unicode.IsSpace(r) })
			if err != nil {
				return e, err
			}
			if len(seg.Left) == 0 && len(seg.Right) == 0 && len(seg.Tags) == 0 {
				return e, p.errf("empty anonymous lexicon entry")
			}
			if err := p.rd.c.AddEntry(h, p.line, lexd.Entry{seg}); err != nil {
				return e, err
			}
			p.skipSpace()
			if p.peek() == '|' {
				p.pos++
				continue
			}
			if p.peek() != ']' {
				return e, p.errf("missing ']'")
			}
			p.pos++
			break
		}
		e = lexd.Ref(h, 1)

	case ch == ':':
		// 4) Right side only.
		p.pos++
		tok, err := p.token()
		if err != nil {
			return e, err
		}
		e.Right = tok

	default:
		// 5) Name, Name:, Name:Other.
		tok, err := p.token()
		if err != nil {
			return e, err
		}
		e.Left, e.Right = tok, tok
		if p.peek() == ':' {
			p.pos++
			e.Right = lexd.Token{}
			if !p.done() && isNameRune(p.peek()) {
				if e.Right, err = p.token(); err != nil {
					return e, err
				}
			}
		}
	}

	if err := p.suffix(&e); err != nil {
		return e, err
	}
	if !p.endOfElement() {
		return e, p.errf("unexpected %q", p.peek())
	}
	return e, nil
}

// token reads Name or Name(n).
func (p *lineParser) token() (lexd.Token, error) {
	name := p.name()
	if name == "" {
		return lexd.Token{}, p.errf("expected a name")
	}
	tok := lexd.Token{Name: p.rd.c.Intern(name), Column: 1}
	if p.peek() == '(' {
		col, err := p.column()
		if err != nil {
			return lexd.Token{}, err
		}
		tok.Column = col
	}
	return tok, nil
}

// suffix reads tag filters and at most one repeat modifier, in any order.
func (p *lineParser) suffix(e *lexd.PatternElement) error {
	moded := false
	for {
		switch p.peek() {
		case '[':
			req, neg, err := p.tags()
			if err != nil {
				return err
			}
			e.Tags = e.Tags.Union(req)
			e.NegTags = e.NegTags.Union(neg)
		case '?', '+', '*':
			if moded {
				return p.errf("second repeat modifier")
			}
			moded = true
			switch p.peek() {
			case '?':
				e.Mode = lexd.Question
			case '+':
				e.Mode = lexd.Plus
			default:
				e.Mode = lexd.Star
			}
			p.pos++
		default:
			return nil
		}
	}
}
