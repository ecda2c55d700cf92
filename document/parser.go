package document

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	docLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Value", Pattern: `[A-Za-z0-9_.][A-Za-z0-9_.%-]*`},
		{Name: "Punct", Pattern: `[{}:]`},
	})

	docParser = participle.MustBuild[ast](
		participle.Lexer(docLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// ast is the raw grammar shape; Parse converts it into a Doc.
type ast struct {
	Name       string       `parser:"'doc' @Value"`
	Statements []*statement `parser:"'{' @@* '}'"`
}

type statement struct {
	Style *styleDecl `parser:"  @@"`
	Para  *paraDecl  `parser:"| @@"`
}

type styleDecl struct {
	Name    string      `parser:"'style' @Value"`
	Entries []*propDecl `parser:"'{' @@* '}'"`
}

type propDecl struct {
	Key   string    `parser:"@Value ':'"`
	Value propValue `parser:"@@"`
}

type propValue struct {
	String *stringLiteral `parser:"  @String"`
	Token  *string        `parser:"| @Value"`
}

func (v propValue) text() string {
	if v.String != nil {
		return string(*v.String)
	}
	if v.Token != nil {
		return *v.Token
	}
	return ""
}

type paraDecl struct {
	Style string        `parser:"'para' @Value?"`
	Text  stringLiteral `parser:"@String"`
}

// stringLiteral unquotes Go-style strings on capture.
type stringLiteral string

// Capture implements participle.Capture.
func (s *stringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = stringLiteral(val)
	return nil
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Doc, error) {
	a, err := docParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return fromAST(a)
}

// ParseString reads a document from a string.
func ParseString(input string) (*Doc, error) {
	a, err := docParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return fromAST(a)
}

func fromAST(a *ast) (*Doc, error) {
	doc := &Doc{
		Name:   a.Name,
		Styles: map[string]Style{},
	}
	for _, st := range a.Statements {
		switch {
		case st.Style != nil:
			props := map[string]string{}
			for _, e := range st.Style.Entries {
				props[e.Key] = e.Value.text()
			}
			if _, dup := doc.Styles[st.Style.Name]; dup {
				return nil, fmt.Errorf("style %q declared twice", st.Style.Name)
			}
			doc.Styles[st.Style.Name] = Style{Name: st.Style.Name, Props: props}
		case st.Para != nil:
			doc.Paras = append(doc.Paras, Para{
				StyleName: st.Para.Style,
				Text:      string(st.Para.Text),
			})
		}
	}
	for _, p := range doc.Paras {
		if p.StyleName != "" {
			if _, ok := doc.Styles[p.StyleName]; !ok {
				return nil, fmt.Errorf("paragraph references unknown style %q", p.StyleName)
			}
		}
	}
	return doc, nil
}
