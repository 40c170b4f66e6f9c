package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/pdf2docx/core"
)

// ErrSyntax is wrapped by the error Parse reports for malformed input.
// Parsing continues past the problem, so the returned operations are
// still usable.
var ErrSyntax = errors.New("content stream syntax error")

// maxNesting bounds array and dictionary nesting
const maxNesting = 32

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands

	// Image is set for inline images (operator "BI")
	Image *InlineImage
}

// InlineImage is the dictionary and raw data between BI and EI. Keys are
// left abbreviated as written (W, H, BPC, CS, F, ...).
type InlineImage struct {
	Dict core.Dict
	Data []byte
}

// Parser parses PDF content streams into a sequence of operations.
// Each operation consists of an operator and its operands.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []core.Object
	firstErr error
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
// Unparseable bytes are skipped; the first problem is returned as an
// error wrapping ErrSyntax alongside the operations that were recovered.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			break
		}
		p.parseNext()
	}
	return p.ops, p.firstErr
}

func (p *Parser) fail(format string, args ...interface{}) {
	if p.firstErr == nil {
		p.firstErr = fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
	}
}

// parseNext parses the next token, which is either an operand (pushed onto the
// stack) or an operator (which consumes the operand stack and creates an Operation).
func (p *Parser) parseNext() {
	start := p.pos
	c := p.data[p.pos]

	if isRegular(c) && !isNumberStart(c) {
		token := p.readToken()
		switch token {
		case "true":
			p.operands = append(p.operands, core.Bool(true))
		case "false":
			p.operands = append(p.operands, core.Bool(false))
		case "null":
			p.operands = append(p.operands, core.Null{})
		case "BI":
			p.parseInlineImage(start)
		default:
			p.emit(token)
		}
		return
	}

	operand, err := p.parseOperand(0)
	if err != nil {
		p.fail("at position %d: %v", start, err)
		if p.pos == start {
			p.pos++
		}
		return
	}
	p.operands = append(p.operands, operand)
}

// emit creates an operation with the current operand stack, then clears it
func (p *Parser) emit(operator string) {
	operation := Operation{
		Operator: operator,
		Operands: make([]core.Object, len(p.operands)),
	}
	copy(operation.Operands, p.operands)
	p.ops = append(p.ops, operation)
	p.operands = p.operands[:0]
}

// readToken reads a run of regular characters
func (p *Parser) readToken() string {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// parseInlineImage reads the BI dictionary, the ID marker and the data up
// to the EI operator.
func (p *Parser) parseInlineImage(start int) {
	dict := make(core.Dict)
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			p.fail("inline image at %d has no ID", start)
			return
		}
		if p.data[p.pos] != '/' {
			token := p.readToken()
			if token == "ID" {
				break
			}
			p.fail("unexpected %q in inline image dictionary at %d", token, p.pos)
			if token == "" {
				p.pos++
			}
			continue
		}
		key := p.parseName()
		p.skipSpaceAndComments()
		value, err := p.parseOperand(0)
		if err != nil {
			p.fail("inline image value at %d: %v", p.pos, err)
			return
		}
		dict[string(key)] = value
	}

	// a single whitespace byte separates ID from the data
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	dataStart := p.pos

	if n, ok := dict.Int("L"); ok && n >= 0 && dataStart+n <= len(p.data) {
		p.pos = dataStart + n
		end := p.pos
		p.skipSpaceAndComments()
		if bytes.HasPrefix(p.data[p.pos:], []byte("EI")) {
			p.pos += 2
			p.emitImage(dict, p.data[dataStart:end])
			return
		}
		p.pos = dataStart
	}

	end := findEI(p.data, dataStart)
	if end < 0 {
		p.fail("inline image at %d has no EI", start)
		p.pos = len(p.data)
		return
	}
	data := p.data[dataStart:end]
	// the whitespace before EI is not part of the data
	if len(data) > 0 && isWhitespace(data[len(data)-1]) {
		data = data[:len(data)-1]
	}
	p.pos = end + 2
	p.emitImage(dict, data)
}

func (p *Parser) emitImage(dict core.Dict, data []byte) {
	p.ops = append(p.ops, Operation{
		Operator: "BI",
		Image:    &InlineImage{Dict: dict, Data: append([]byte(nil), data...)},
	})
	p.operands = p.operands[:0]
}

// findEI locates an EI operator delimited by whitespace on both sides
func findEI(data []byte, from int) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		before := i == from || isWhitespace(data[i-1])
		after := i+2 == len(data) || isWhitespace(data[i+2]) || isDelimiter(data[i+2])
		if before && after {
			return i
		}
	}
	return -1
}

// parseOperand parses a single operand, which can be a number, string, name,
// array, dictionary, boolean, or null.
func (p *Parser) parseOperand(depth int) (core.Object, error) {
	if depth > maxNesting {
		return nil, fmt.Errorf("nesting deeper than %d", maxNesting)
	}
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case isNumberStart(c):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict(depth)
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray(depth)
	case isRegular(c):
		switch token := p.readToken(); token {
		case "true":
			return core.Bool(true), nil
		case "false":
			return core.Bool(false), nil
		case "null":
			return core.Null{}, nil
		default:
			return nil, fmt.Errorf("unexpected token %q", token)
		}
	}
	return nil, fmt.Errorf("unexpected character %q", c)
}

// parseNumber parses an integer or real number operand. Malformed forms
// seen in the wild such as "--5" or "5-" read as -5 and 5.
func (p *Parser) parseNumber() (core.Object, error) {
	start := p.pos
	hasDecimal := false
	negative := false

	for p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
		if p.data[p.pos] == '-' {
			negative = true
		}
		p.pos++
	}
	digits := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}
	// swallow trailing junk that belongs to the same token
	end := p.pos
	for p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}

	numStr := string(p.data[digits:end])
	if numStr == "" || numStr == "." {
		if p.pos == start {
			p.pos++
		}
		return core.Int(0), nil
	}

	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", numStr, err)
		}
		if negative {
			val = -val
		}
		return core.Real(val), nil
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		// too large for an int; keep the magnitude as a real
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", numStr, err)
		}
		if negative {
			f = -f
		}
		return core.Real(f), nil
	}
	if negative {
		val = -val
	}
	return core.Int(val), nil
}

// parseString parses a literal string (...) with escape sequence handling.
// An unterminated string runs to the end of the stream.
func (p *Parser) parseString() (core.Object, error) {
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1

	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				break
			}
			next := p.data[p.pos]
			p.pos++
			switch next {
			case 'n':
				result.WriteByte('\n')
			case 'r':
				result.WriteByte('\r')
			case 't':
				result.WriteByte('\t')
			case 'b':
				result.WriteByte('\b')
			case 'f':
				result.WriteByte('\f')
			case '\r':
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				octal := int(next - '0')
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					digit := p.data[p.pos]
					if digit < '0' || digit > '7' {
						break
					}
					octal = octal*8 + int(digit-'0')
					p.pos++
				}
				result.WriteByte(byte(octal))
			default:
				// includes \( \) \\ ; unknown escapes drop the backslash
				result.WriteByte(next)
			}
		case '(':
			depth++
			result.WriteByte(c)
		case ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
		default:
			result.WriteByte(c)
		}
	}

	if depth != 0 {
		p.fail("unclosed string")
	}
	return core.String(result.String()), nil
}

// parseHexString parses a hexadecimal string <...>. Non-hex characters are
// ignored and an odd final digit is padded with 0.
func (p *Parser) parseHexString() (core.Object, error) {
	p.pos++ // skip '<'

	var result bytes.Buffer
	var hi byte
	odd := false

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		if !isHexDigit(c) {
			continue
		}
		if odd {
			result.WriteByte(hi<<4 | hexValue(c))
		} else {
			hi = hexValue(c)
		}
		odd = !odd
	}
	if odd {
		result.WriteByte(hi << 4)
	}
	return core.String(result.String()), nil
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() core.Name {
	p.pos++ // skip '/'

	var result bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if !isRegular(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		result.WriteByte(c)
		p.pos++
	}
	return core.Name(result.String())
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray(depth int) (core.Object, error) {
	p.pos++ // skip '['

	arr := core.Array{}
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return arr, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		start := p.pos
		obj, err := p.parseOperand(depth + 1)
		if err != nil {
			if p.pos == start {
				p.pos++
			}
			p.fail("in array: %v", err)
			continue
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a dictionary <<...>> (marked-content properties and
// inline image parameters).
func (p *Parser) parseDict(depth int) (core.Object, error) {
	p.pos += 2 // skip '<<'

	dict := make(core.Dict)
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return dict, fmt.Errorf("unclosed dictionary")
		}
		if bytes.HasPrefix(p.data[p.pos:], []byte(">>")) {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return dict, fmt.Errorf("dictionary key must be a name")
		}
		key := p.parseName()
		p.skipSpaceAndComments()
		value, err := p.parseOperand(depth + 1)
		if err != nil {
			return dict, err
		}
		dict[string(key)] = value
	}
}

// skipSpaceAndComments advances past whitespace and % comments
func (p *Parser) skipSpaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isWhitespace(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
