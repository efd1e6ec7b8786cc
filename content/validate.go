package content

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gosimple/slug"
)

// ErrMalformed is returned when document structure can not be rendered.
var ErrMalformed = errors.New("malformed content")

var colorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate checks document invariants renderers rely on: document is not
// empty, block IDs are unique slugs, tables are rectangular, lists and
// galleries have items.
func Validate(d *Document) error {
	if d == nil || len(d.Blocks) == 0 {
		return fmt.Errorf("%w: document has no blocks", ErrMalformed)
	}

	ids := make(map[string]bool, len(d.Blocks)+len(d.Links))
	sections := 0
	for bi := range d.Blocks {
		b := &d.Blocks[bi]
		if !slug.IsSlug(b.ID) {
			return fmt.Errorf("%w: block %d has bad id %q", ErrMalformed, bi, b.ID)
		}
		if ids[b.ID] {
			return fmt.Errorf("%w: duplicate block id %q", ErrMalformed, b.ID)
		}
		ids[b.ID] = true
		for _, f := range b.Only {
			if !f.IsValid() {
				return fmt.Errorf("%w: block %q restricted to unknown format %d", ErrMalformed, b.ID, f)
			}
		}
		for si := range b.Sections {
			if err := validateSection(&b.Sections[si]); err != nil {
				return fmt.Errorf("%w: block %q section %d: %w", ErrMalformed, b.ID, si, err)
			}
		}
		sections += len(b.Sections)
	}
	if sections == 0 {
		return fmt.Errorf("%w: document has no sections", ErrMalformed)
	}

	for _, l := range d.Links {
		if !slug.IsSlug(l.ID) {
			return fmt.Errorf("%w: link has bad id %q", ErrMalformed, l.ID)
		}
		if ids[l.ID] {
			return fmt.Errorf("%w: duplicate link id %q", ErrMalformed, l.ID)
		}
		ids[l.ID] = true
		if !l.Artifact.IsValid() {
			return fmt.Errorf("%w: link %q points to unknown format %d", ErrMalformed, l.ID, l.Artifact)
		}
	}
	return nil
}

func validateStyle(st *Style) error {
	if st.Size < 0 {
		return fmt.Errorf("negative font size %d", st.Size)
	}
	if st.Color != "" && !colorRe.MatchString(st.Color) {
		return fmt.Errorf("bad color %q", st.Color)
	}
	return nil
}

func validateSection(s *Section) error {
	if err := validateStyle(&s.Style); err != nil {
		return err
	}
	switch s.Kind {
	case KindHeading:
		if s.Level < 1 || s.Level > 6 {
			return fmt.Errorf("heading level %d out of range", s.Level)
		}
		if s.Text == "" {
			return errors.New("empty heading")
		}
	case KindParagraph:
	case KindTable:
		t := s.Table
		if t == nil {
			return errors.New("table section without table")
		}
		if t.Rows <= 0 || t.Cols <= 0 {
			return fmt.Errorf("table has bad dimensions %dx%d", t.Rows, t.Cols)
		}
		if len(t.Cells) != t.Rows*t.Cols {
			return fmt.Errorf("table %dx%d has %d cells", t.Rows, t.Cols, len(t.Cells))
		}
		if err := validateStyle(&t.Style); err != nil {
			return err
		}
	case KindList:
		if len(s.Items) == 0 {
			return errors.New("empty list")
		}
	case KindGallery:
		if len(s.Images) == 0 {
			return errors.New("empty gallery")
		}
		for _, img := range s.Images {
			if img.Path == "" {
				return errors.New("gallery image without path")
			}
		}
	case KindPageBreak:
	default:
		return fmt.Errorf("unknown section kind %d", s.Kind)
	}
	return nil
}
