package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1A0H,", "1A0"},
		{"15_00H", "1500"},
		{"1500,", "1500"},
		{"1500H−151FH,", "1500−151F"},
		{"C90H+n,", "C90+n"},
		{"1_2_3", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeToken(tt.raw), "NormalizeToken(%q)", tt.raw)
	}
}

func TestTokenParser_Classify(t *testing.T) {
	p, err := newTokenParser()
	require.NoError(t, err)

	tests := []struct {
		text string
		want Token
	}{
		{"1A0", Token{Text: "1A0", Kind: KindSingle, Low: 0x1A0, High: 0x1A0}},
		{"0", Token{Text: "0", Kind: KindSingle}},
		{"0x1A0", Token{Text: "0x1A0", Kind: KindSingle, Low: 0x1A0, High: 0x1A0}},
		{"c0010015", Token{Text: "c0010015", Kind: KindSingle, Low: 0xC0010015, High: 0xC0010015}},
		{"FFFFFFFF", Token{Text: "FFFFFFFF", Kind: KindSingle, Low: 0xFFFFFFFF, High: 0xFFFFFFFF}},
		{"1500−151F", Token{Text: "1500−151F", Kind: KindRange, Low: 0x1500, High: 0x151F}},
		{"20−10", Token{Text: "20−10", Kind: KindRange, Low: 0x20, High: 0x10}},
		{"C90+n", Token{Text: "C90+n", Kind: KindFamily, Low: 0xC90, High: 0xC90}},
		{"C90+n1", Token{Text: "C90+n1", Kind: KindFamily, Low: 0xC90, High: 0xC90}},
		{"C90+n+1", Token{Text: "C90+n+1", Kind: KindFamily, Low: 0xC90, High: 0xC90}},
		{"C90+nx", Token{Text: "C90+nx", Kind: KindFamily, Low: 0xC90, High: 0xC90}},
		{"1A0\t", Token{Text: "1A0\t", Kind: KindSingle, Low: 0x1A0, High: 0x1A0}},
		{"1500\t−151F", Token{Text: "1500\t−151F", Kind: KindRange, Low: 0x1500, High: 0x151F}},
		{"C90\t+n", Token{Text: "C90\t+n", Kind: KindFamily, Low: 0xC90, High: 0xC90}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := p.parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenParser_Malformed(t *testing.T) {
	p, err := newTokenParser()
	require.NoError(t, err)

	for _, text := range []string{
		"",
		"1500-151F",            // hyphen-minus is not a range separator
		"1A0h",                 // lowercase suffix is not stripped
		"100000000",            // wider than 32 bits
		"1500−151F−1600",
		"C90+N",
		"+n",
		"G00+n",
		"1500−151F+n",
		"\t",
		"IA32_MISC",
	} {
		_, err := p.parse(text)
		assert.Error(t, err, "parse(%q)", text)
		assert.True(t, errors.Is(err, ErrMalformedToken), "parse(%q) should wrap ErrMalformedToken, got %v", text, err)
	}
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, uint64(1), Row{Token: Token{Kind: KindSingle, Low: 5, High: 5}}.Count())
	assert.Equal(t, uint64(32), Row{Token: Token{Kind: KindRange, Low: 0x1500, High: 0x151F}}.Count())
	assert.Equal(t, uint64(0), Row{Token: Token{Kind: KindRange, Low: 0x20, High: 0x10}}.Count())
	assert.Equal(t, uint64(0), Row{Token: Token{Kind: KindFamily, Low: 0xC90}}.Count())
}

func TestFamilyString(t *testing.T) {
	f := Family{Base: 0xC90, Token: "C90+n"}
	assert.Equal(t, "0x00000C90  C90+n", f.String())
	assert.Equal(t, "0xC0010015", FormatAddress(0xC0010015))
}
