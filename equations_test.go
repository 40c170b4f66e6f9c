package pdf2docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2docx/layout"
	"github.com/tsawler/pdf2docx/model"
)

func TestMathMLToOMML(t *testing.T) {
	tests := []struct {
		name     string
		mathml   string
		contains []string
		linear   string
	}{
		{
			name:     "superscript",
			mathml:   `<math><msup><mi>x</mi><mn>2</mn></msup></math>`,
			contains: []string{"<m:sSup><m:e>", "<m:sup>", ">2</m:t>"},
			linear:   "x^(2)",
		},
		{
			name:     "fraction",
			mathml:   `<math xmlns="http://www.w3.org/1998/Math/MathML"><mfrac><mi>a</mi><mi>b</mi></mfrac></math>`,
			contains: []string{"<m:f><m:num>", "<m:den>"},
			linear:   "(a)/(b)",
		},
		{
			name:     "square root",
			mathml:   `<math><msqrt><mi>y</mi></msqrt></math>`,
			contains: []string{"<m:rad>", `<m:degHide m:val="1"/>`},
			linear:   "sqrt(y)",
		},
		{
			name:     "fenced",
			mathml:   `<math><mfenced open="[" close="]"><mi>a</mi><mi>b</mi></mfenced></math>`,
			contains: []string{`<m:begChr m:val="["/>`, `<m:endChr m:val="]"/>`},
			linear:   "[a,b]",
		},
		{
			name:     "escaping",
			mathml:   `<math><mo>&lt;</mo></math>`,
			contains: []string{"&lt;"},
			linear:   "<",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			omml, linear, err := mathMLToOMML(tt.mathml)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(omml, "<m:oMath>"))
			for _, want := range tt.contains {
				assert.Contains(t, omml, want)
			}
			assert.Equal(t, tt.linear, linear)
		})
	}

	_, _, err := mathMLToOMML("<math></math>")
	assert.Error(t, err)
	_, _, err = mathMLToOMML("<math><mi>")
	assert.Error(t, err)
}

func TestExtractMathML(t *testing.T) {
	assert.Equal(t, "<math><mi>x</mi></math>", extractMathML("E = <math><mi>x</mi></math>"))
	assert.Equal(t, "", extractMathML("E = mc2"))
}

func TestTextOMML(t *testing.T) {
	assert.Equal(t, `<m:oMath><m:r><m:t xml:space="preserve">a &lt; b</m:t></m:r></m:oMath>`, textOMML("a < b"))
}

func TestPipelineEquation(t *testing.T) {
	block := model.TextBlock{Text: " E = mc2 ", FontSize: 12, BBox: model.NewBBox(72, 600, 100, 14)}

	t.Run("text becomes math", func(t *testing.T) {
		p := &pipeline{opts: defaultOptions()}
		eq := p.equation(0, layout.Equation{Block: block})
		assert.Equal(t, "E = mc2", eq.Text)
		assert.Equal(t, textOMML("E = mc2"), eq.OMML)
		assert.Equal(t, "E = mc2", eq.Description)
		assert.Nil(t, eq.Picture)
	})

	t.Run("overlapping image is the fallback", func(t *testing.T) {
		p := &pipeline{opts: defaultOptions()}
		img := model.Image{Data: []byte{1, 2, 3}, MIME: "image/png", Name: "Im4", BBox: block.BBox}
		eq := p.equation(0, layout.Equation{Block: block, Image: &img})
		assert.NotEmpty(t, eq.OMML)
		require.NotNil(t, eq.Picture)
		assert.Equal(t, "E = mc2", eq.Picture.Description)
		assert.Equal(t, "Im4", eq.Picture.Name)
	})

	t.Run("rendered when images are requested", func(t *testing.T) {
		opts := defaultOptions()
		opts.equationImages = true
		p := &pipeline{opts: opts}
		eq := p.equation(0, layout.Equation{Block: block})
		assert.Empty(t, eq.OMML)
		require.NotNil(t, eq.Picture)
		assert.Equal(t, "image/png", eq.Picture.MIME)
		assert.Equal(t, "equation", eq.Picture.Name)
		assert.Greater(t, eq.Picture.Width, 0.0)
		assert.Equal(t, "E = mc2", eq.Picture.Description)
	})

	t.Run("mathml", func(t *testing.T) {
		p := &pipeline{opts: defaultOptions()}
		b := block
		b.Text = "<math><msup><mi>x</mi><mn>2</mn></msup></math>"
		eq := p.equation(0, layout.Equation{Block: b})
		assert.Equal(t, b.Text, eq.MathML)
		assert.Equal(t, "x^(2)", eq.Text)
		assert.Contains(t, eq.OMML, "<m:sSup>")
	})
}
