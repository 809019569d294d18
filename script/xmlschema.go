// Package script parses archetype scripts (XML documents conforming to
// the `https://helidon.io/archetype/2.0` schema) into ast.Node trees and
// caches them by absolute path (spec.md §4.3, §6).
package script

import (
	"bytes"
	"encoding/xml"
	"io"
)

// element is a generic XML tree node: the archetype schema has ~25
// element kinds sharing a handful of attributes, so rather than one Go
// struct per element this is parsed once into a homogeneous tree and
// then interpreted by kind name in loader.go.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr
	Children []element
	CharData string
	Line     int
	Col      int
}

// attr returns the value of a named attribute (namespace-insensitive),
// and whether it was present.
func (e element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// noopKinds are element kinds that never survive into the AST as nodes of
// their own. include, exclude and value are read directly by their parent
// builders (includes/excludes items, model VALUE blocks); help, directory
// and replace are dropped, and their text is not copied into any
// attribute of the parent.
var noopKinds = map[string]bool{
	"help":      true,
	"directory": true,
	"include":   true,
	"exclude":   true,
	"replace":   true,
	"value":     true,
}

// parseDocument decodes raw into an element tree, tagging every element
// with its 1-based line/column (spec.md §3 "every node carries its
// source location (path:line:col)"). Unlike a plain xml.Unmarshal into
// element, this walks the token stream directly so each StartElement can
// be stamped with xml.Decoder.InputPos() before descending into its
// children.
func parseDocument(raw []byte) (element, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return element{}, io.ErrUnexpectedEOF
			}
			return element{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			line, col := dec.InputPos()
			return decodeElement(dec, start.Copy(), line, col)
		}
	}
}

// decodeElement consumes tokens up to and including start's matching
// EndElement, recursing into any child StartElement.
func decodeElement(dec *xml.Decoder, start xml.StartElement, line, col int) (element, error) {
	e := element{XMLName: start.Name, Attrs: start.Attr, Line: line, Col: col}
	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return e, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			cLine, cCol := dec.InputPos()
			child, err := decodeElement(dec, t.Copy(), cLine, cCol)
			if err != nil {
				return e, err
			}
			e.Children = append(e.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			e.CharData = text.String()
			return e, nil
		}
	}
}
