package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// RangeSeparator joins the two bounds of a documented range. The manuals use
// U+2212 MINUS SIGN here, not the ASCII hyphen-minus.
const RangeSeparator = "−"

// FamilySuffix marks a register family ("C90+n").
const FamilySuffix = "+n"

// TokenKind classifies a register token
type TokenKind string

const (
	KindSingle TokenKind = "single"
	KindRange  TokenKind = "range"
	KindFamily TokenKind = "family"
)

// tokenLexer splits a normalized single or range token into hex numbers and
// the range separator. Stray whitespace is dropped; anything else is a lexer
// error.
var tokenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Minus", Pattern: RangeSeparator},
	{Name: "Hex", Pattern: `(?:0[xX])?[0-9A-Fa-f]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// registerToken is the grammar for a normalized token:
//
//	1A0        single value
//	1500−151F  inclusive range
//
// Families ("C90+n") are recognised before the grammar runs.
type registerToken struct {
	Low  string  `parser:"@Hex"`
	High *string `parser:"( Minus @Hex )?"`
}

// Token is a classified register token
type Token struct {
	Text string // normalized text, as printed for families
	Kind TokenKind
	Low  uint32
	High uint32 // equal to Low unless Kind is KindRange
}

type tokenParser struct {
	parser *participle.Parser[registerToken]
}

func newTokenParser() (*tokenParser, error) {
	p, err := participle.Build[registerToken](
		participle.Lexer(tokenLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build token parser: %w", err)
	}
	return &tokenParser{parser: p}, nil
}

// NormalizeToken strips thousands separators, digit-group underscores and the
// "H" hexadecimal suffix: "1500H−151FH," becomes "1500−151F".
func NormalizeToken(raw string) string {
	return strings.NewReplacer(",", "", "_", "", "H", "").Replace(raw)
}

// parse classifies a normalized token and resolves its numeric bounds.
// A token holding the range separator is a range. Otherwise any token
// containing "+n" is a family whose base is the text before the first "+",
// whatever follows the suffix.
func (p *tokenParser) parse(text string) (Token, error) {
	if !strings.Contains(text, RangeSeparator) && strings.Contains(text, FamilySuffix) {
		base, _, _ := strings.Cut(text, "+")
		low, err := parseHex(base)
		if err != nil {
			return Token{}, err
		}
		return Token{Text: text, Kind: KindFamily, Low: low, High: low}, nil
	}

	ast, err := p.parser.ParseString("", text)
	if err != nil {
		return Token{}, fmt.Errorf("%w %q: %v", ErrMalformedToken, text, err)
	}

	low, err := parseHex(ast.Low)
	if err != nil {
		return Token{}, err
	}
	tok := Token{Text: text, Kind: KindSingle, Low: low, High: low}
	if ast.High == nil {
		return tok, nil
	}

	high, err := parseHex(*ast.High)
	if err != nil {
		return Token{}, err
	}
	tok.Kind = KindRange
	tok.High = high
	return tok, nil
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrMalformedToken, s, err)
	}
	return uint32(v), nil
}
