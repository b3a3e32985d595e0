// Package document holds the pension proposal template, the per-slot field
// store and the renderer that turns both into an HTML tree.
package document

import (
	"fmt"
	"strings"

	errorslib "github.com/goliatone/go-errors"
)

// SegmentKind identifies the type of a template segment.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentSlot
	SegmentElement
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentSlot:
		return "slot"
	case SegmentElement:
		return "element"
	default:
		return fmt.Sprintf("segment(%d)", int(k))
	}
}

// Segment is one node of a document template.
type Segment struct {
	Kind     SegmentKind
	Text     string
	SlotID   string
	Tag      string
	Style    string
	Children []Segment
}

// Text is a fixed prose fragment.
func Text(value string) Segment {
	return Segment{Kind: SegmentText, Text: value}
}

// Slot is an editable region identified by id.
func Slot(id, style string) Segment {
	return Segment{Kind: SegmentSlot, SlotID: id, Style: style}
}

// Element is a structural wrapper around other segments.
func Element(tag, style string, children ...Segment) Segment {
	return Segment{Kind: SegmentElement, Tag: tag, Style: style, Children: children}
}

// Template is an immutable ordered sequence of segments.
type Template struct {
	name     string
	segments []Segment
	slots    []string
	index    map[string]int
}

// NewTemplate validates segments and takes a deep copy of them. Slot ids
// must be non-empty and unique across the whole tree.
func NewTemplate(name string, segments ...Segment) (*Template, error) {
	tpl := &Template{
		name:     strings.TrimSpace(name),
		segments: copySegments(segments),
		index:    make(map[string]int),
	}

	var err error
	walkSegments(tpl.segments, func(seg Segment) bool {
		if err != nil {
			return false
		}
		switch seg.Kind {
		case SegmentSlot:
			id := seg.SlotID
			if strings.TrimSpace(id) == "" {
				err = validationError("template slot id is required")
				return false
			}
			if _, dup := tpl.index[id]; dup {
				err = validationError(fmt.Sprintf("duplicate template slot %q", id))
				return false
			}
			tpl.index[id] = len(tpl.slots)
			tpl.slots = append(tpl.slots, id)
		case SegmentElement:
			if strings.TrimSpace(seg.Tag) == "" {
				err = validationError("template element tag is required")
				return false
			}
		case SegmentText:
		default:
			err = validationError(fmt.Sprintf("unknown segment kind %s", seg.Kind))
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// MustTemplate is NewTemplate for package level templates.
func MustTemplate(name string, segments ...Segment) *Template {
	tpl, err := NewTemplate(name, segments...)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Name returns the template name.
func (t *Template) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Segments returns a copy of the top level segments.
func (t *Template) Segments() []Segment {
	if t == nil {
		return nil
	}
	return copySegments(t.segments)
}

// SlotIDs returns slot ids in reading order.
func (t *Template) SlotIDs() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.slots...)
}

// HasSlot reports whether id names a slot of the template.
func (t *Template) HasSlot(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[id]
	return ok
}

// PlainText flattens the template into its reading order text using values
// for the slots.
func (t *Template) PlainText(values map[string]string) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	walkSegments(t.segments, func(seg Segment) bool {
		switch seg.Kind {
		case SegmentText:
			b.WriteString(seg.Text)
		case SegmentSlot:
			b.WriteString(values[seg.SlotID])
		}
		return true
	})
	return b.String()
}

func walkSegments(segments []Segment, fn func(Segment) bool) bool {
	for _, seg := range segments {
		if !fn(seg) {
			return false
		}
		if seg.Kind == SegmentElement && !walkSegments(seg.Children, fn) {
			return false
		}
	}
	return true
}

func copySegments(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		out[i].Children = copySegments(seg.Children)
	}
	return out
}

func validationError(msg string) error {
	return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("invalid_template")
}
