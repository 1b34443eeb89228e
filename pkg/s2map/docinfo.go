package s2map

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// DocumentInfo edits the documentinfo XML sidecar. Only the <Dependencies>
// element is ever rewritten; everything else in the file, including the XML
// declaration and the CRLF line endings the game writes, is passed through
// byte for byte.
type DocumentInfo struct {
	raw []byte
}

// ParseDocumentInfo checks that data is well-formed XML with a single root
// element and wraps it for editing.
func ParseDocumentInfo(data []byte) (*DocumentInfo, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document info: %w", err)
		}
		if _, ok := tok.(xml.StartElement); ok && !sawRoot {
			sawRoot = true
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("parsing document info: no root element")
	}
	return &DocumentInfo{raw: append([]byte(nil), data...)}, nil
}

// Bytes returns the current file content.
func (d *DocumentInfo) Bytes() []byte {
	return d.raw
}

// Dependencies returns the text of each <Value> child of the root's
// <Dependencies> element, in document order.
func (d *DocumentInfo) Dependencies() []string {
	dec := xml.NewDecoder(bytes.NewReader(d.raw))
	var deps []string
	depth := 0
	inDeps := false
	inValue := false
	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Local == "Dependencies" {
				inDeps = true
			} else if inDeps && depth == 3 && t.Name.Local == "Value" {
				inValue = true
				text.Reset()
			}
		case xml.EndElement:
			if inValue && depth == 3 {
				deps = append(deps, text.String())
				inValue = false
			}
			if inDeps && depth == 2 {
				inDeps = false
			}
			depth--
		case xml.CharData:
			if inValue {
				text.Write(t)
			}
		}
	}
	return deps
}

// SetDependencies replaces the <Dependencies> element's children with one
// <Value> per entry, creating the element before the root's closing tag when
// the file has none.
func (d *DocumentInfo) SetDependencies(deps []string) error {
	start, end, found, err := d.dependenciesSpan()
	if err != nil {
		return err
	}

	nl := "\n"
	if bytes.Contains(d.raw, []byte("\r\n")) {
		nl = "\r\n"
	}
	indent := d.indentAt(start)
	if !found && indent == "" {
		indent = "    "
	}
	block := renderDependencies(deps, indent, nl)

	var out bytes.Buffer
	out.Write(d.raw[:start])
	if !found {
		// start points at the root's closing tag; put the new element on its
		// own line in front of it.
		out.WriteString(indent)
		out.WriteString(block)
		out.WriteString(nl)
		out.WriteString(d.indentAt(start))
	} else {
		out.WriteString(block)
	}
	out.Write(d.raw[end:])
	d.raw = out.Bytes()
	return nil
}

// dependenciesSpan locates the byte range of the root's <Dependencies>
// element. When the element is absent it returns the offset of the root's
// closing tag with found == false.
func (d *DocumentInfo) dependenciesSpan() (start, end int64, found bool, err error) {
	dec := xml.NewDecoder(bytes.NewReader(d.raw))
	depth := 0
	depsDepth := -1
	var prev int64
	for {
		tok, terr := dec.Token()
		if terr == io.EOF {
			break
		}
		if terr != nil {
			return 0, 0, false, fmt.Errorf("parsing document info: %w", terr)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Local == "Dependencies" && depsDepth < 0 {
				start = prev
				depsDepth = depth
			}
		case xml.EndElement:
			if depth == depsDepth {
				return start, dec.InputOffset(), true, nil
			}
			if depth == 1 {
				// prev is the offset of the root's closing tag.
				return prev, prev, false, nil
			}
			depth--
		}
		prev = dec.InputOffset()
	}
	return 0, 0, false, fmt.Errorf("parsing document info: root element not closed")
}

// indentAt returns the run of spaces and tabs between offset and the start
// of its line.
func (d *DocumentInfo) indentAt(offset int64) string {
	i := int(offset)
	j := i
	for j > 0 && (d.raw[j-1] == ' ' || d.raw[j-1] == '\t') {
		j--
	}
	if j > 0 && d.raw[j-1] != '\n' {
		return ""
	}
	return string(d.raw[j:i])
}

func renderDependencies(deps []string, indent, nl string) string {
	if len(deps) == 0 {
		return "<Dependencies/>"
	}
	var b bytes.Buffer
	b.WriteString("<Dependencies>")
	for _, dep := range deps {
		b.WriteString(nl)
		b.WriteString(indent)
		b.WriteString("    <Value>")
		xml.EscapeText(&b, []byte(dep))
		b.WriteString("</Value>")
	}
	b.WriteString(nl)
	b.WriteString(indent)
	b.WriteString("</Dependencies>")
	return b.String()
}
