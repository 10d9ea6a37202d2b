package citation

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/pericope/citesync/core/errors"
)

// Style is a configurable label style: optional bracket affixes, a
// separator between positions, and optional collapsing of consecutive
// runs into ranges ("2,3,4" -> "2-4").
type Style struct {
	Prefix    string
	Suffix    string
	Separator string
	RangeSep  string
	Collapse  bool
}

// Label renders positions in their given order, without sorting. Runs of
// three or more consecutive ascending positions collapse into a range
// when the style enables it.
func (s *Style) Label(positions []int) string {
	if len(positions) == 0 {
		return ""
	}

	var parts []string
	for i := 0; i < len(positions); {
		j := i
		if s.Collapse {
			for j+1 < len(positions) && positions[j+1] == positions[j]+1 {
				j++
			}
		}
		if j-i >= 2 {
			parts = append(parts, strconv.Itoa(positions[i])+s.RangeSep+strconv.Itoa(positions[j]))
			i = j + 1
			continue
		}
		parts = append(parts, strconv.Itoa(positions[i]))
		i++
	}

	return s.Prefix + strings.Join(parts, s.Separator) + s.Suffix
}

// styleToken is one token of a style template.
type styleToken struct {
	Int   *int    `parser:"  @Int"`
	Open  *string `parser:"| @Open"`
	Close *string `parser:"| @Close"`
	Sep   *string `parser:"| @Sep"`
	Dash  *string `parser:"| @Dash"`
}

// styleTemplate is the participle grammar for label-style templates.
// Examples: "[1,2-4]", "(1; 2)", "1,2"
type styleTemplate struct {
	Tokens []styleToken `parser:"@@*"`
}

// styleLexer defines the lexer for label-style templates.
var styleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Open", Pattern: `[\[({]`},
	{Name: "Close", Pattern: `[\])}]`},
	{Name: "Sep", Pattern: `[,;]`},
	{Name: "Dash", Pattern: `[-–—]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// styleParser is the participle parser for label-style templates.
var styleParser = participle.MustBuild[styleTemplate](
	participle.Lexer(styleLexer),
	participle.Elide("Whitespace"),
)

// StyleFromTemplate derives a Style from an example rendering. The
// template shows how a multi-entry citation should look: brackets become
// affixes, the first separator becomes the separator, and a dash between
// numbers enables range collapsing.
func StyleFromTemplate(template string) (*Style, error) {
	parsed, err := styleParser.ParseString("", template)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing label template %q", template)
	}

	style := &Style{Separator: ","}
	sawInt := false
	sawSep := false

	for _, tok := range parsed.Tokens {
		switch {
		case tok.Int != nil:
			sawInt = true
		case tok.Open != nil && !sawInt:
			style.Prefix += *tok.Open
		case tok.Close != nil && sawInt:
			style.Suffix += *tok.Close
		case tok.Sep != nil && !sawSep:
			style.Separator = *tok.Sep
			sawSep = true
		case tok.Dash != nil:
			style.Collapse = true
			style.RangeSep = *tok.Dash
		}
	}

	if !sawInt {
		return nil, errors.NewValidation("template", "must contain at least one number")
	}
	return style, nil
}

// MustStyle derives a Style from a template and panics on error. For use
// with known-good literals.
func MustStyle(template string) *Style {
	style, err := StyleFromTemplate(template)
	if err != nil {
		panic(err)
	}
	return style
}
