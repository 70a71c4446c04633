package simplepost

import (
	"strconv"
	"strings"
	"time"
)

// Field is one typed value stored in a post region or block. Implementations
// are self-describing: Title derives a short display title from the value,
// used for collection row titles in the editor.
type Field interface {
	// Type returns the field type id used for registry lookups.
	Type() string

	// Title returns a display title derived from the current value, or an
	// empty string when the value produces none.
	Title() string
}

// Standard field type ids.
const (
	FieldTypeString   = "string"
	FieldTypeText     = "text"
	FieldTypeMarkdown = "markdown"
	FieldTypeNumber   = "number"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
)

// maxFieldTitle is the rune cutoff for value-derived display titles.
const maxFieldTitle = 40

func fieldTitle(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxFieldTitle {
		return string(r[:maxFieldTitle]) + "…"
	}
	return s
}

// StringField holds a single line of text.
type StringField struct {
	Value string `json:"value"`
}

func (f *StringField) Type() string  { return FieldTypeString }
func (f *StringField) Title() string { return fieldTitle(f.Value) }

// TextField holds multi-line plain text.
type TextField struct {
	Value string `json:"value"`
}

func (f *TextField) Type() string  { return FieldTypeText }
func (f *TextField) Title() string { return fieldTitle(f.Value) }

// MarkdownField holds markdown source.
type MarkdownField struct {
	Value string `json:"value"`
}

func (f *MarkdownField) Type() string  { return FieldTypeMarkdown }
func (f *MarkdownField) Title() string { return fieldTitle(f.Value) }

// NumberField holds an integer value.
type NumberField struct {
	Value int `json:"value"`
}

func (f *NumberField) Type() string  { return FieldTypeNumber }
func (f *NumberField) Title() string { return strconv.Itoa(f.Value) }

// CheckboxField holds a boolean value.
type CheckboxField struct {
	Value bool `json:"value"`
}

func (f *CheckboxField) Type() string { return FieldTypeCheckbox }

func (f *CheckboxField) Title() string {
	if f.Value {
		return "Yes"
	}
	return "No"
}

// DateField holds an optional date and time.
type DateField struct {
	Value *time.Time `json:"value,omitempty"`
}

func (f *DateField) Type() string { return FieldTypeDate }

func (f *DateField) Title() string {
	if f.Value == nil {
		return ""
	}
	return f.Value.Format(PublishDateLayout)
}

// SelectField holds the integer key of a selected option. The option set
// itself lives on the registered FieldTypeInfo, not on the value.
type SelectField struct {
	Value int `json:"value"`
}

func (f *SelectField) Type() string  { return FieldTypeSelect }
func (f *SelectField) Title() string { return strconv.Itoa(f.Value) }

// CloneField returns a copy of a field value so shared records cannot be
// mutated through a previously handed-out clone.
func CloneField(f Field) Field {
	switch v := f.(type) {
	case nil:
		return nil
	case *StringField:
		out := *v
		return &out
	case *TextField:
		out := *v
		return &out
	case *MarkdownField:
		out := *v
		return &out
	case *NumberField:
		out := *v
		return &out
	case *CheckboxField:
		out := *v
		return &out
	case *DateField:
		out := *v
		if v.Value != nil {
			t := *v.Value
			out.Value = &t
		}
		return &out
	case *SelectField:
		out := *v
		return &out
	default:
		// Custom field kinds registered by callers are returned as-is;
		// they are expected to be immutable or to manage their own copies.
		return f
	}
}
