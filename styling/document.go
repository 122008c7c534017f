package styling

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

// Element is a generic XML element. Names are matched on their local part, namespaces are ignored.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Element `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (e *Element) Name() string {
	return e.XMLName.Local
}

// Attr returns the value of the attribute, and whether it was present
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (e *Element) AttrOrDefault(name, defaultValue string) string {
	value, ok := e.Attr(name)
	if !ok {
		return defaultValue
	}
	return value
}

// Child returns the first child element with the name, or nil
func (e *Element) Child(name string) *Element {
	for _, child := range e.Children {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

func (e *Element) ChildrenNamed(name string) []*Element {
	var children []*Element
	for _, child := range e.Children {
		if child.Name() == name {
			children = append(children, child)
		}
	}
	return children
}

// Path follows the child names down from this element, and returns nil if any of them is missing
func (e *Element) Path(names ...string) *Element {
	current := e
	for _, name := range names {
		current = current.Child(name)
		if current == nil {
			return nil
		}
	}
	return current
}

func (e *Element) TrimmedText() string {
	return strings.TrimSpace(e.Text)
}

// ReadDocument reads an XML document into an element tree, and returns the root element
func ReadDocument(reader io.Reader) (*Element, errorsx.Error) {
	root := new(Element)
	err := xml.NewDecoder(reader).Decode(root)
	if err != nil {
		if err == io.EOF {
			return nil, errorsx.Errorf("empty style document")
		}
		return nil, errorsx.Wrap(err)
	}

	return root, nil
}
