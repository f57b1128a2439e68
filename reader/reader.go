package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/katalvlaran/lexd/intern"
	"github.com/katalvlaran/lexd/lexd"
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionPatterns
	sectionLexicon
)

// reader holds the state of one Read call.
type reader struct {
	c *lexd.Compiler

	kind sectionKind
	name intern.Handle // current pattern or lexicon
	tags lexd.TagSet   // added to every entry of the current lexicon
}

// Read parses lexd source from r into c.
// Syntax errors are *SyntaxError; grammar errors detected while
// populating (column mismatch, redefinition) are *lexd.CompileError.
func Read(r io.Reader, c *lexd.Compiler) error {
	rd := &reader{c: c}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := rd.line(line, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reader: line %d: %w", line+1, err)
	}
	return nil
}

// ReadString is Read over a string.
func ReadString(src string, c *lexd.Compiler) error {
	return Read(strings.NewReader(src), c)
}

// ReadFile is Read over a file.
func ReadFile(path string, c *lexd.Compiler) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	defer f.Close()
	return Read(f, c)
}

// stripComment cuts an unescaped '#' and everything after it.
func stripComment(s []rune) []rune {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '#':
			return s[:i]
		}
	}
	return s
}

// line dispatches one source line.
func (rd *reader) line(n int, text string) error {
	src := stripComment([]rune(text))
	if strings.TrimSpace(string(src)) == "" {
		return nil
	}

	// 1) Section headers start in column 1.
	word, rest := headerWord(src)
	switch word {
	case "PATTERNS":
		if len(strings.TrimSpace(string(rest))) != 0 {
			return syntaxErr(n, len(word)+1, "unexpected text after PATTERNS")
		}
		rd.kind, rd.name = sectionPatterns, rd.c.Root()
		return nil
	case "PATTERN":
		name := strings.TrimSpace(string(rest))
		if name == "" || strings.IndexFunc(name, func(r rune) bool { return !isNameRune(r) }) >= 0 {
			return syntaxErr(n, len(word)+2, "bad pattern name %q", name)
		}
		rd.kind, rd.name = sectionPatterns, rd.c.Intern(name)
		return nil
	case "LEXICON":
		return rd.lexiconHeader(n, src, len(word))
	case "ALIAS":
		fields := strings.Fields(string(rest))
		if len(fields) != 2 {
			return syntaxErr(n, len(word)+2, "ALIAS takes two names")
		}
		rd.kind = sectionNone
		return rd.c.AddAlias(rd.c.Intern(fields[1]), rd.c.Intern(fields[0]), n)
	}

	// 2) Body lines.
	switch rd.kind {
	case sectionPatterns:
		return rd.patternLine(n, src)
	case sectionLexicon:
		return rd.lexiconLine(n, src)
	}
	return syntaxErr(n, 1, "line outside of any PATTERNS, PATTERN or LEXICON section")
}

// headerWord returns the leading keyword of src if src starts with one.
func headerWord(src []rune) (string, []rune) {
	i := 0
	for i < len(src) && unicode.IsUpper(src[i]) {
		i++
	}
	word := string(src[:i])
	switch word {
	case "PATTERNS", "PATTERN", "LEXICON", "ALIAS":
		if i == len(src) || unicode.IsSpace(src[i]) {
			return word, src[i:]
		}
	}
	return "", src
}

// lexiconHeader parses "LEXICON Name", "LEXICON Name(n)" and
// "LEXICON Name(n)[tags]".
func (rd *reader) lexiconHeader(n int, src []rune, skip int) error {
	p := &lineParser{rd: rd, src: src, pos: skip, line: n}
	p.skipSpace()
	start := p.pos
	name := p.name()
	if name == "" {
		return syntaxErr(n, start+1, "expected lexicon name")
	}
	cols := 1
	if p.peek() == '(' {
		var err error
		if cols, err = p.column(); err != nil {
			return err
		}
	}
	var tags lexd.TagSet
	if p.peek() == '[' {
		req, neg, err := p.tags()
		if err != nil {
			return err
		}
		if len(neg) > 0 {
			return syntaxErr(n, p.pos, "lexicon tags cannot be negative")
		}
		tags = req
	}
	p.skipSpace()
	if !p.done() {
		return syntaxErr(n, p.pos+1, "unexpected %q after lexicon header", p.peek())
	}

	h := rd.c.Intern(name)
	if err := rd.c.DeclareLexicon(h, cols, n); err != nil {
		return err
	}
	rd.kind, rd.name, rd.tags = sectionLexicon, h, tags
	return nil
}

// isNameRune reports runes allowed in lexicon and pattern names.
func isNameRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', '[', ']', '{', '}', '<', '>', '|', ':', '?', '*', '+', '#', '\\', ',':
		return false
	}
	return true
}
