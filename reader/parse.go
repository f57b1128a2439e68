package reader

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/lexd"
)

// lineParser walks one comment-stripped line. Columns in errors are
// 1-based rune offsets.
type lineParser struct {
	rd   *reader
	src  []rune
	pos  int
	line int
}

func (p *lineParser) done() bool { return p.pos >= len(p.src) }

func (p *lineParser) peek() rune {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *lineParser) skipSpace() {
	for !p.done() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *lineParser) errf(format string, args ...any) error {
	return syntaxErr(p.line, p.pos+1, format, args...)
}

// name reads a run of name runes.
func (p *lineParser) name() string {
	start := p.pos
	for !p.done() && isNameRune(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// column reads "(n)" with n ≥ 1.
func (p *lineParser) column() (int, error) {
	p.pos++ // (
	start := p.pos
	for !p.done() && p.src[p.pos] != ')' {
		p.pos++
	}
	if p.done() {
		return 0, syntaxErr(p.line, start, "unterminated column number")
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(p.src[start:p.pos])))
	if err != nil || n < 1 {
		return 0, syntaxErr(p.line, start+1, "bad column number %q", string(p.src[start:p.pos]))
	}
	p.pos++ // )
	return n, nil
}

// tags reads "[a,-b,...]" into required and excluded sets.
func (p *lineParser) tags() (req, neg lexd.TagSet, err error) {
	p.pos++ // [
	start := p.pos
	for !p.done() && p.src[p.pos] != ']' {
		p.pos++
	}
	if p.done() {
		return nil, nil, syntaxErr(p.line, start, "unterminated tag list")
	}
	body := string(p.src[start:p.pos])
	p.pos++ // ]

	for _, raw := range strings.Split(body, ",") {
		t := strings.TrimSpace(raw)
		negative := strings.HasPrefix(t, "-")
		t = strings.TrimPrefix(t, "-")
		if t == "" || strings.IndexFunc(t, func(r rune) bool { return !isNameRune(r) }) >= 0 {
			return nil, nil, syntaxErr(p.line, start+1, "bad tag %q", raw)
		}
		if negative {
			neg = neg.Union(p.rd.c.Tags(t))
		} else {
			req = req.Union(p.rd.c.Tags(t))
		}
	}
	return req, neg, nil
}

// lexiconLine parses one entry: whitespace separated segments.
func (rd *reader) lexiconLine(n int, src []rune) error {
	p := &lineParser{rd: rd, src: src, line: n}
	var entry lexd.Entry
	for {
		p.skipSpace()
		if p.done() {
			break
		}
		seg, err := p.segment(func(r rune) bool { return unicode.IsSpace(r) })
		if err != nil {
			return err
		}
		seg.Tags = seg.Tags.Union(rd.tags)
		entry = append(entry, seg)
	}
	// A wrong segment count is reported by the compiler as ErrColumnCount.
	return rd.c.AddEntry(rd.name, n, entry)
}

// segment reads "left:right[tags]" up to a rune accepted by stop.
// Without ':' both sides are equal.
func (p *lineParser) segment(stop func(rune) bool) (lexd.Segment, error) {
	var (
		seg   lexd.Segment
		left  []fst.Symbol
		right []fst.Symbol
		colon bool
	)
	add := func(sym string) {
		s := p.rd.c.Alphabet().Symbol(sym)
		if colon {
			right = append(right, s)
		} else {
			left = append(left, s)
		}
	}
	for !p.done() && !stop(p.src[p.pos]) {
		switch ch := p.src[p.pos]; ch {
		case '\\':
			p.pos++
			if p.done() {
				return seg, p.errf("dangling escape")
			}
			add(string(p.src[p.pos]))
			p.pos++
		case '{', '<':
			closer := '}'
			if ch == '<' {
				closer = '>'
			}
			start := p.pos
			end := start + 1
			for end < len(p.src) && p.src[end] != closer {
				end++
			}
			if end == len(p.src) {
				return seg, p.errf("unterminated %q", ch)
			}
			if ch == '<' {
				add(string(p.src[start : end+1]))
			} else {
				add(string(p.src[start+1 : end]))
			}
			p.pos = end + 1
		case ':':
			if colon {
				return seg, p.errf("second ':' in segment")
			}
			colon = true
			p.pos++
		case '[':
			req, neg, err := p.tags()
			if err != nil {
				return seg, err
			}
			if len(neg) > 0 {
				return seg, p.errf("entry tags cannot be negative")
			}
			seg.Tags = seg.Tags.Union(req)
			if !p.done() && !stop(p.peek()) {
				return seg, p.errf("tags must end a segment")
			}
		default:
			add(string(ch))
			p.pos++
		}
	}
	seg.Left = left
	if colon {
		seg.Right = right
	} else {
		seg.Right = append([]fst.Symbol(nil), left...)
	}
	return seg, nil
}
