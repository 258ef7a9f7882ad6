package nodes

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Synthesizer builds human-readable documentation for a node, either from
// an externally supplied per-type source or from the node's own
// description fields.
type Synthesizer struct {
	logger zerolog.Logger
}

// NewSynthesizer creates a new documentation synthesizer
func NewSynthesizer(logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		logger: logger.With().Str("component", "doc-synthesizer").Logger(),
	}
}

// Document returns documentation for one node. External documentation
// wins verbatim; otherwise the description is rendered section by
// section. When no descriptive content exists anywhere the result is nil,
// never an empty string, so callers can tell "no documentation" apart
// from "empty documentation".
func (s *Synthesizer) Document(nodeType string, desc Description, external map[string]string) *string {
	if doc, ok := external[nodeType]; ok && doc != "" {
		s.logger.Debug().Str("node", nodeType).Msg("Using external documentation")
		return &doc
	}

	var sections []string

	if heading := renderHeading(desc); heading != "" {
		sections = append(sections, heading)
	}
	if subtitle := desc.Subtitle(); subtitle != "" {
		sections = append(sections, "*Subtitle:* "+subtitle)
	}
	if params := renderParameters(desc); params != "" {
		sections = append(sections, params)
	}
	sections = append(sections, renderCodex(desc.Codex())...)
	if hints := renderHints(desc.Hints()); hints != "" {
		sections = append(sections, hints)
	}

	if len(sections) == 0 {
		return nil
	}

	doc := strings.Join(sections, "\n\n")
	return &doc
}

// renderHeading produces the display-name heading plus free-text body.
func renderHeading(desc Description) string {
	display := desc.DisplayName()
	text := desc.Text()

	switch {
	case display != "" && text != "":
		return fmt.Sprintf("# %s\n\n%s", display, text)
	case text != "":
		return text
	default:
		// A bare display name carries no descriptive content.
		return ""
	}
}

// renderParameters joins every parameter that declares its own
// description, one per line.
func renderParameters(desc Description) string {
	var lines []string
	for _, p := range desc.Properties() {
		text := p.Get("description").String()
		if text == "" {
			continue
		}
		label := p.Get("displayName").String()
		if label == "" {
			label = p.Get("name").String()
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s", label, text))
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Parameters\n\n" + strings.Join(lines, "\n")
}

// renderCodex renders the embedded categorical metadata as subsections.
func renderCodex(codex gjson.Result) []string {
	if !codex.Exists() {
		return nil
	}

	var sections []string

	if cats := stringList(codex.Get("categories")); len(cats) > 0 {
		sections = append(sections, "## Categories\n\n"+strings.Join(cats, ", "))
	}

	if sub := codex.Get("subcategories"); sub.IsObject() {
		var lines []string
		sub.ForEach(func(key, value gjson.Result) bool {
			if items := stringList(value); len(items) > 0 {
				lines = append(lines, fmt.Sprintf("**%s**: %s", key.String(), strings.Join(items, ", ")))
			}
			return true
		})
		if len(lines) > 0 {
			sections = append(sections, "## Use Cases\n\n"+strings.Join(lines, "\n"))
		}
	}

	if links := renderResourceLinks(codex.Get("resources")); links != "" {
		sections = append(sections, links)
	}

	if aliases := stringList(codex.Get("alias")); len(aliases) > 0 {
		sections = append(sections, "## Also Known As\n\n"+strings.Join(aliases, ", "))
	}

	return sections
}

// renderResourceLinks renders external documentation links.
func renderResourceLinks(resources gjson.Result) string {
	if !resources.IsObject() {
		return ""
	}

	var lines []string
	for _, kind := range []string{"primaryDocumentation", "credentialDocumentation"} {
		for _, entry := range resources.Get(kind).Array() {
			url := entry.Get("url").String()
			if url == "" {
				continue
			}
			label := entry.Get("label").String()
			if label == "" {
				label = url
			}
			lines = append(lines, fmt.Sprintf("- [%s](%s)", label, url))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Resources\n\n" + strings.Join(lines, "\n")
}

// renderHints renders the trailing hint section.
func renderHints(hints gjson.Result) string {
	var lines []string
	for _, h := range hints.Array() {
		text := h.Get("message").String()
		if text == "" {
			text = h.String()
		}
		if text != "" {
			lines = append(lines, "- "+text)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Hints\n\n" + strings.Join(lines, "\n")
}

func stringList(value gjson.Result) []string {
	var out []string
	for _, item := range value.Array() {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
