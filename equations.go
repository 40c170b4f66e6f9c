package pdf2docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var errNoMath = errors.New("no math content")

// mathNode is one element of a parsed MathML tree
type mathNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*mathNode
}

// extractMathML returns the MathML markup embedded in s, or ""
func extractMathML(s string) string {
	i := strings.Index(s, "<math")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i:])
}

func parseMathML(s string) (*mathNode, error) {
	d := xml.NewDecoder(strings.NewReader(s))
	var stack []*mathNode
	var root *mathNode
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &mathNode{name: t.Name.Local, attrs: make(map[string]string)}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 && root != nil {
				return root, nil
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errNoMath
	}
	return root, nil
}

// allText returns the character data of n and its descendants
func (n *mathNode) allText() string {
	var sb strings.Builder
	sb.WriteString(n.text)
	for _, c := range n.children {
		sb.WriteString(c.allText())
	}
	return sb.String()
}

// linear renders n as a one line expression such as "(a)/(b)"
func (n *mathNode) linear() string {
	c := n.children
	join := func(nodes []*mathNode) string {
		var sb strings.Builder
		for _, child := range nodes {
			sb.WriteString(child.linear())
		}
		return sb.String()
	}
	switch {
	case n.name == "mi" || n.name == "mn" || n.name == "mo" || n.name == "mtext":
		return strings.TrimSpace(n.allText())
	case n.name == "msup" && len(c) >= 2:
		return c[0].linear() + "^(" + c[1].linear() + ")"
	case n.name == "msub" && len(c) >= 2:
		return c[0].linear() + "_(" + c[1].linear() + ")"
	case n.name == "msubsup" && len(c) >= 3:
		return c[0].linear() + "_(" + c[1].linear() + ")^(" + c[2].linear() + ")"
	case n.name == "mfrac" && len(c) >= 2:
		return "(" + c[0].linear() + ")/(" + c[1].linear() + ")"
	case n.name == "msqrt":
		return "sqrt(" + join(c) + ")"
	case n.name == "mfenced":
		open, closing, sep := fences(n)
		parts := make([]string, len(c))
		for i, child := range c {
			parts[i] = child.linear()
		}
		return open + strings.Join(parts, sep) + closing
	}
	if len(c) == 0 {
		return strings.TrimSpace(n.text)
	}
	return join(c)
}

func fences(n *mathNode) (open, closing, sep string) {
	open, closing, sep = "(", ")", ","
	if v, ok := n.attrs["open"]; ok {
		open = v
	}
	if v, ok := n.attrs["close"]; ok {
		closing = v
	}
	if v, ok := n.attrs["separators"]; ok {
		sep = strings.TrimSpace(v)
	}
	return open, closing, sep
}

// ommlWriter builds Office Math markup
type ommlWriter struct {
	buf bytes.Buffer
}

func (w *ommlWriter) run(text string) {
	if text == "" {
		return
	}
	w.buf.WriteString(`<m:r><m:t xml:space="preserve">`)
	_ = xml.EscapeText(&w.buf, []byte(text))
	w.buf.WriteString(`</m:t></m:r>`)
}

func (w *ommlWriter) wrap(tag string, body func()) {
	w.buf.WriteString("<" + tag + ">")
	body()
	w.buf.WriteString("</" + tag + ">")
}

func (w *ommlWriter) attr(tag, val string) {
	w.buf.WriteString("<" + tag + ` m:val="`)
	_ = xml.EscapeText(&w.buf, []byte(val))
	w.buf.WriteString(`"/>`)
}

func (w *ommlWriter) node(n *mathNode) {
	c := n.children
	arg := func(tag string, child *mathNode) {
		w.wrap(tag, func() { w.node(child) })
	}
	switch {
	case n.name == "mi" || n.name == "mn" || n.name == "mo" || n.name == "mtext":
		w.run(strings.TrimSpace(n.allText()))
	case n.name == "msup" && len(c) >= 2:
		w.wrap("m:sSup", func() {
			arg("m:e", c[0])
			arg("m:sup", c[1])
		})
	case n.name == "msub" && len(c) >= 2:
		w.wrap("m:sSub", func() {
			arg("m:e", c[0])
			arg("m:sub", c[1])
		})
	case n.name == "msubsup" && len(c) >= 3:
		w.wrap("m:sSubSup", func() {
			arg("m:e", c[0])
			arg("m:sub", c[1])
			arg("m:sup", c[2])
		})
	case n.name == "mfrac" && len(c) >= 2:
		w.wrap("m:f", func() {
			arg("m:num", c[0])
			arg("m:den", c[1])
		})
	case n.name == "msqrt":
		w.wrap("m:rad", func() {
			w.wrap("m:radPr", func() { w.attr("m:degHide", "1") })
			w.buf.WriteString("<m:deg/>")
			w.wrap("m:e", func() { w.nodes(c) })
		})
	case n.name == "mroot" && len(c) >= 2:
		w.wrap("m:rad", func() {
			arg("m:deg", c[1])
			arg("m:e", c[0])
		})
	case n.name == "mfenced":
		open, closing, sep := fences(n)
		w.wrap("m:d", func() {
			w.wrap("m:dPr", func() {
				w.attr("m:begChr", open)
				w.attr("m:sepChr", sep)
				w.attr("m:endChr", closing)
			})
			for _, child := range c {
				arg("m:e", child)
			}
		})
	case len(c) == 0:
		w.run(strings.TrimSpace(n.text))
	default:
		w.nodes(c)
	}
}

func (w *ommlWriter) nodes(nodes []*mathNode) {
	for _, n := range nodes {
		w.node(n)
	}
}

// mathMLToOMML converts MathML to an m:oMath element. It returns the linear
// text of the expression too.
func mathMLToOMML(mathml string) (omml, linear string, err error) {
	root, err := parseMathML(mathml)
	if err != nil {
		return "", "", err
	}
	linear = root.linear()
	if strings.TrimSpace(root.allText()) == "" {
		return "", "", errNoMath
	}
	var w ommlWriter
	w.wrap("m:oMath", func() { w.node(root) })
	return w.buf.String(), linear, nil
}

// textOMML wraps a linear expression in an m:oMath element
func textOMML(expression string) string {
	var w ommlWriter
	w.wrap("m:oMath", func() { w.run(expression) })
	return w.buf.String()
}
