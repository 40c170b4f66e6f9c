package interpreter

import (
	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/model"
)

// numbers returns the first n operands as floats. It fails when there are
// fewer than n operands or one of them is not a number.
func numbers(operands []core.Object, n int) ([]float64, bool) {
	if len(operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := core.Number(operands[len(operands)-n+i])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// allNumbers returns every leading numeric operand
func allNumbers(operands []core.Object) []float64 {
	out := make([]float64, 0, len(operands))
	for _, o := range operands {
		v, ok := core.Number(o)
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func matrix(operands []core.Object) (model.Matrix, bool) {
	v, ok := numbers(operands, 6)
	if !ok {
		return model.Matrix{}, false
	}
	return model.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]}, true
}

func nameOperand(operands []core.Object, i int) (string, bool) {
	if i >= len(operands) {
		return "", false
	}
	n, ok := operands[i].(core.Name)
	return string(n), ok
}

func stringOperand(operands []core.Object, i int) ([]byte, bool) {
	if i < 0 || i >= len(operands) {
		return nil, false
	}
	s, ok := operands[i].(core.String)
	return []byte(s), ok
}
