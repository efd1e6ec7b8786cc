package content

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Identifier returns stable identifier of the document. It is name based so
// that repeated builds produce byte-identical artifacts.
func (m *Meta) Identifier() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "rpkg:%s:%s:%s:%d", m.Title, m.Author, m.AuthorID, m.Year))
}

var tokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// FirstSentence returns first sentence of the text with inline formatting
// removed. Falls back to the whole text when tokenizer is not available.
func FirstSentence(s string) string {
	s = strings.TrimSpace(PlainText(strings.Join(Lines(s), " ")))
	if s == "" {
		return ""
	}
	tok, err := tokenizer()
	if err != nil {
		return s
	}
	for _, snt := range tok.Tokenize(s) {
		if t := strings.TrimSpace(snt.Text); t != "" {
			return t
		}
	}
	return s
}

// Description summarizes document with first sentence of its first
// justified or plain paragraph.
func (d *Document) Description() string {
	for _, b := range d.Blocks {
		for _, s := range b.Sections {
			if s.Kind != KindParagraph || s.Style.Align == AlignCenter {
				continue
			}
			if len([]rune(strings.TrimSpace(s.Text))) < 40 {
				// labels like "Tempat : Sumarorong" do not describe anything
				continue
			}
			return FirstSentence(s.Text)
		}
	}
	return d.Meta.Title
}
