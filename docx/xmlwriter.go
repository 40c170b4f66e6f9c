package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// xmlWriter emits one package part as a token stream. Element names carry
// their prefix in the local part ("w:p") so the output keeps the prefixes
// Word expects. The first encoding error is kept and reported by bytes.
type xmlWriter struct {
	buf   bytes.Buffer
	enc   *xml.Encoder
	stack []string
	err   error
}

func newXMLWriter() *xmlWriter {
	w := &xmlWriter{}
	w.buf.WriteString(xmlDeclaration)
	w.enc = xml.NewEncoder(&w.buf)
	return w
}

func attrs(kv []string) []xml.Attr {
	if len(kv) == 0 {
		return nil
	}
	out := make([]xml.Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: kv[i]}, Value: kv[i+1]})
	}
	return out
}

// open starts an element; kv holds attribute name/value pairs
func (w *xmlWriter) open(name string, kv ...string) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs(kv)})
	w.stack = append(w.stack, name)
}

// close ends the innermost open element
func (w *xmlWriter) close() {
	if len(w.stack) == 0 {
		if w.err == nil {
			w.err = fmt.Errorf("close without open element")
		}
		return
	}
	name := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

// empty writes an element without content
func (w *xmlWriter) empty(name string, kv ...string) {
	w.open(name, kv...)
	w.close()
}

// leaf writes an element holding only text
func (w *xmlWriter) leaf(name, text string, kv ...string) {
	w.open(name, kv...)
	w.text(text)
	w.close()
}

func (w *xmlWriter) text(s string) {
	if w.err != nil || s == "" {
		return
	}
	w.err = w.enc.EncodeToken(xml.CharData(s))
}

// raw copies an already serialized fragment into the open element
func (w *xmlWriter) raw(fragment string) {
	if w.err != nil {
		return
	}
	if w.err = w.enc.Flush(); w.err != nil {
		return
	}
	w.buf.WriteString(fragment)
}

// bytes closes the document and returns it
func (w *xmlWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.stack) > 0 {
		return nil, fmt.Errorf("unclosed element %s", w.stack[len(w.stack)-1])
	}
	if err := w.enc.Flush(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}
