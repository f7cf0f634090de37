package services

import "strings"

// EditorKind is the input widget the host renders for discussion and post bodies.
type EditorKind int

const (
	EditorMarkdown EditorKind = iota
	EditorTextarea
	EditorRich
)

// ParseEditor resolves the configured editor name; unknown names fall back to markdown.
func ParseEditor(name string) EditorKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "textarea":
		return EditorTextarea
	case "richeditor":
		return EditorRich
	default:
		return EditorMarkdown
	}
}

func (e EditorKind) String() string {
	switch e {
	case EditorTextarea:
		return "textarea"
	case EditorRich:
		return "richeditor"
	default:
		return "markdown"
	}
}

// ProducesHTML reports whether stored bodies are HTML fragments.
func (e EditorKind) ProducesHTML() bool {
	return e == EditorRich
}
