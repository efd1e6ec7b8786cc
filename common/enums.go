// Package common keeps enums shared by configuration and renderers so that
// config does not have to depend on rendering code.
package common

//go:generate go tool go-enum --marshal --names --nocase --mustparse

import (
	"strings"
)

// Specification of produced artifact type.
// ENUM(docx, html, markdown)
type ArtifactFormat int

// AllArtifactFormats returns every known format in rendering order.
func AllArtifactFormats() []ArtifactFormat {
	return []ArtifactFormat{ArtifactFormatDocx, ArtifactFormatHtml, ArtifactFormatMarkdown}
}

// Ext returns file extension used for the format.
func (f ArtifactFormat) Ext() string {
	switch f {
	case ArtifactFormatDocx:
		return ".docx"
	case ArtifactFormatHtml:
		return ".html"
	case ArtifactFormatMarkdown:
		return ".md"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// ParseArtifactFormats parses comma separated list of formats preserving
// order and dropping duplicates. "md" is accepted as alias for markdown.
func ParseArtifactFormats(list string) ([]ArtifactFormat, error) {
	var (
		res  []ArtifactFormat
		seen = make(map[ArtifactFormat]bool)
	)
	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "md") {
			part = ArtifactFormatMarkdown.String()
		}
		f, err := ParseArtifactFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			res = append(res, f)
		}
	}
	return res, nil
}
