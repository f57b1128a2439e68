// Package reader parses lexd source text into a lexd.Compiler.
//
// The format is line oriented:
//
//	# comment
//	PATTERNS
//	Stems Suffix[-pl]? | Irregular
//
//	PATTERN Irregular
//	Verbs(1) Verbs(2)
//
//	LEXICON Stems
//	cat
//	mouse:mice[pl]
//
//	LEXICON Verbs(2)
//	sing  <past>:sang
//
//	ALIAS Stems OtherStems
//
// Segments are left:right (or one string for both sides) with optional
// [tags]; symbols are single characters, <multichar> or {multichar}, and
// '\' escapes the next character. Pattern elements are Name, Name(n),
// Name:, :Name, A:B, followed by [tag,-tag] filters and one of ? + *.
// Parentheses group an anonymous pattern, brackets hold an anonymous
// lexicon, '|' separates alternatives, and a lone '<' or '>' is a sieve.
package reader
