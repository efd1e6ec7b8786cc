// Package css checks stylesheets inlined into generated page.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ErrInvalid is returned for stylesheets that can not be inlined.
var ErrInvalid = errors.New("invalid stylesheet")

// Parser parses CSS stylesheets into rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. The source identifies what is
// being parsed in log messages.
func (p *Parser) Parse(data []byte, source string) (*Stylesheet, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", ErrInvalid, source)
	}
	if bytes.Contains(bytes.ToLower(data), []byte("</style")) {
		return nil, fmt.Errorf("%w: %s closes style element", ErrInvalid, source)
	}

	p.log.Debug("Parsing CSS", zap.String("source", source), zap.Int("bytes", len(data)))

	sheet := &Stylesheet{}
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		media     string
		depth     int
		selectors []string
	)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, source, err)
			}
			if len(sheet.Rules) == 0 {
				sheet.Warnings = append(sheet.Warnings, "stylesheet has no rules")
			}
			p.log.Debug("Parsed CSS", zap.String("source", source), zap.Int("rules", len(sheet.Rules)), zap.Int("warnings", len(sheet.Warnings)))
			return sheet, nil

		case css.BeginAtRuleGrammar:
			depth++
			rule := string(data)
			if rule == "@media" {
				media = tokensString(parser.Values())
			} else if rule != "@font-face" && rule != "@keyframes" && rule != "@supports" {
				sheet.Warnings = append(sheet.Warnings, "unexpected at-rule block: "+rule)
			}

		case css.EndAtRuleGrammar:
			depth--
			if depth == 0 {
				media = ""
			}

		case css.AtRuleGrammar:
			rule := string(data)
			switch rule {
			case "@import":
				if url := extractURL(parser.Values()); url != "" {
					sheet.Imports = append(sheet.Imports, url)
					sheet.Warnings = append(sheet.Warnings, "stylesheet imports "+url)
				}
			case "@charset":
			default:
				p.log.Debug("Skipping @-rule", zap.String("rule", rule))
			}

		case css.QualifiedRuleGrammar:
			// grouped selector, more parts follow
			selectors = append(selectors, splitSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors = append(selectors, splitSelectors(data, parser.Values())...)
			props := p.parseDeclarations(parser, sheet)
			for _, sel := range selectors {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Media: media, Properties: props})
			}
			selectors = nil

		case css.DeclarationGrammar:
			// declarations inside at-rule blocks (@font-face)
			p.collectURLs(parser.Values(), sheet)
		}
	}
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) map[string]string {
	props := make(map[string]string)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			values := parser.Values()
			p.collectURLs(values, sheet)
			props[strings.ToLower(string(data))] = tokensString(values)
		}
	}
}

func (p *Parser) collectURLs(values []css.Token, sheet *Stylesheet) {
	for _, t := range values {
		if t.TokenType == css.URLToken {
			sheet.URLs = append(sheet.URLs, extractURL([]css.Token{t}))
		}
	}
}

func tokensString(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// splitSelectors extracts selector strings from token data.
func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// extractURL handles: "url", url("url"), url(url).
func extractURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
