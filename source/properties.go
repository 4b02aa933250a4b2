package source

import "strings"

// RichTextSpan is one span of a title or rich-text property value.
type RichTextSpan struct {
	PlainText string `json:"plain_text"`
}

// SelectOption is one option of a select or multi-select property value.
type SelectOption struct {
	Name string `json:"name"`
}

// FileRef is one entry of a files property value. Externally hosted files
// carry the URL under External, uploads under File.
type FileRef struct {
	Name     string `json:"name,omitempty"`
	External *struct {
		URL string `json:"url"`
	} `json:"external,omitempty"`
	File *struct {
		URL string `json:"url"`
	} `json:"file,omitempty"`
}

// Property is one typed property value on a source page. Only the field
// matching Type is populated; the accessors below tolerate any shape and
// return zero values on mismatch.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichTextSpan `json:"title,omitempty"`
	RichText    []RichTextSpan `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Files       []FileRef      `json:"files,omitempty"`
}

// Page is one externally-authored record from the document store, keyed by
// human-readable property names. The pipeline only ever reads it.
type Page struct {
	ID             string              `json:"id"`
	LastEditedTime string              `json:"last_edited_time,omitempty"`
	Properties     map[string]Property `json:"properties"`
}

// TitleText returns the concatenated plain text of a title property, trimmed.
func TitleText(p Property) string {
	return joinSpans(p.Title)
}

// RichText returns the concatenated plain text of a rich-text property,
// trimmed. Falls back to the title spans so a mis-typed column still reads.
func RichText(p Property) string {
	if s := joinSpans(p.RichText); s != "" {
		return s
	}
	return joinSpans(p.Title)
}

// AnyText reads whichever text-bearing shape the property has: title,
// rich text, or a select option name.
func AnyText(p Property) string {
	if s := joinSpans(p.Title); s != "" {
		return s
	}
	if s := joinSpans(p.RichText); s != "" {
		return s
	}
	return SelectValue(p)
}

// SelectValue returns the selected option name of a select property, or "".
func SelectValue(p Property) string {
	if p.Select == nil {
		return ""
	}
	return strings.TrimSpace(p.Select.Name)
}

// MultiSelectValues returns the option names of a multi-select property.
// Empty names are dropped.
func MultiSelectValues(p Property) []string {
	out := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		if name := strings.TrimSpace(opt.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// CheckboxValue returns the checkbox state, false when absent.
func CheckboxValue(p Property) bool {
	return p.Checkbox != nil && *p.Checkbox
}

// FirstFileURL returns the URL of the first file reference on a files
// property, preferring the external URL, or "" when there is none.
func FirstFileURL(p Property) string {
	for _, f := range p.Files {
		if f.External != nil && strings.TrimSpace(f.External.URL) != "" {
			return strings.TrimSpace(f.External.URL)
		}
		if f.File != nil && strings.TrimSpace(f.File.URL) != "" {
			return strings.TrimSpace(f.File.URL)
		}
	}
	return ""
}

func joinSpans(spans []RichTextSpan) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.PlainText)
	}
	return strings.TrimSpace(b.String())
}
