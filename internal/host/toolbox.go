package host

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is a node of the host page's toolbox tree
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []*Element
}

// Attr returns the attribute value, or "" when the attribute is missing
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attrs[name]
}

// ElementsByTagName returns every descendant with the given tag in document order.
// Nested matches are included, so a category's blocks contain those of its
// subcategories and blocks embedded in other blocks' inputs.
func (e *Element) ElementsByTagName(tag string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			if c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}

// ElementByID returns the element itself or its first descendant carrying the id
func (e *Element) ElementByID(id string) *Element {
	if e == nil {
		return nil
	}
	if e.Attrs["id"] == id {
		return e
	}
	for _, c := range e.Children {
		if found := c.ElementByID(id); found != nil {
			return found
		}
	}
	return nil
}

// ParseToolbox reads an XML document into an element tree
func ParseToolbox(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var stack []*Element
	var root *Element

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse toolbox: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Tag:   strings.ToLower(t.Name.Local),
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse toolbox: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("failed to parse toolbox: empty document")
	}
	return root, nil
}
