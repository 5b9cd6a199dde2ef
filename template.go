package notecheck

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/rs/zerolog"
)

// Template is a labeled reference image. It is never mutated after load.
type Template struct {
	Label string
	Path  string
	Image *Image
}

func (t *Template) Width() int  { return t.Image.Width() }
func (t *Template) Height() int { return t.Image.Height() }

func (t *Template) MarshalZerologObject(e *zerolog.Event) {
	e.Str("label", t.Label).
		Str("path", t.Path).
		Int("width", t.Width()).
		Int("height", t.Height())
}

// TemplateSet maps unique labels to templates and iterates in insertion order.
type TemplateSet struct {
	m *linkedhashmap.Map
}

func NewTemplateSet() *TemplateSet {
	return &TemplateSet{m: linkedhashmap.New()}
}

// Add appends t. A label that is already present is rejected.
func (s *TemplateSet) Add(t *Template) error {
	if t == nil || t.Image.Empty() {
		return fmt.Errorf("template has no image")
	}
	if _, found := s.m.Get(t.Label); found {
		return fmt.Errorf("duplicate template label %q", t.Label)
	}
	s.m.Put(t.Label, t)
	return nil
}

func (s *TemplateSet) Get(label string) (*Template, bool) {
	v, found := s.m.Get(label)
	if !found {
		return nil, false
	}
	return v.(*Template), true
}

func (s *TemplateSet) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Size()
}

func (s *TemplateSet) Empty() bool { return s.Len() == 0 }

// Labels returns the labels in insertion order.
func (s *TemplateSet) Labels() []string {
	labels := make([]string, 0, s.Len())
	s.Each(func(t *Template) bool {
		labels = append(labels, t.Label)
		return true
	})
	return labels
}

// Templates returns the templates in insertion order.
func (s *TemplateSet) Templates() []*Template {
	out := make([]*Template, 0, s.Len())
	s.Each(func(t *Template) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Each calls fn for every template in insertion order until fn returns false.
func (s *TemplateSet) Each(fn func(t *Template) bool) {
	if s.Len() == 0 {
		return
	}
	it := s.m.Iterator()
	for it.Next() {
		if !fn(it.Value().(*Template)) {
			return
		}
	}
}
