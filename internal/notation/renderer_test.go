package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTexChecker_Valid(t *testing.T) {
	c := NewTexChecker(nil)
	valid := []string{
		`x \to \infty`,
		`\frac{a}{b} + \sqrt[3]{x^2}`,
		`\sum_{i=1}^{n} i = \frac{n(n+1)}{2}`,
		`\left( \frac{1}{2} \right)^2`,
		`\begin{pmatrix} a & b \\ c & d \end{pmatrix}`,
		`\begin{align*} x &= 1 \end{align*}`,
		`a_i^2 + b^{2}_{j}`,
		`\text{speed} = \frac{d}{t}`,
		`\{ x \mid x > 0 \}`,
		`\lim\limits_{x \to 0} \frac{\sin x}{x} = 1`,
		`f'(x) \, dx`,
	}
	for _, expr := range valid {
		assert.NoError(t, c.Render(expr, false), expr)
	}
}

func TestTexChecker_Invalid(t *testing.T) {
	c := NewTexChecker(nil)
	cases := map[string]string{
		`\frac{a}{b`:                  "Expected '}'",
		`a}`:                          "Unexpected '}'",
		`\fraq{a}{b}`:                 `Undefined control sequence: \fraq`,
		`x^`:                          "Expected group after '^'",
		`x^2^3`:                       "Double superscript",
		`x_1_2`:                       "Double subscript",
		`\left( x`:                    `Expected '\right'`,
		`x \right)`:                   `Unexpected '\right'`,
		`\begin{foo} x \end{foo}`:     "No such environment: foo",
		`\begin{matrix} x \end{cases}`: "Mismatch",
		`\frac{a}`:                    `Expected group after '\frac'`,
	}
	for expr, want := range cases {
		err := c.Render(expr, false)
		require.Error(t, err, expr)
		assert.Contains(t, err.Error(), want, expr)
	}
}

func TestTexChecker_ExtraCommands(t *testing.T) {
	c := NewTexChecker(map[string]int{"R": 0, "abs": 1})
	assert.NoError(t, c.Render(`\abs{x} \in \R`, true))

	var perr *ParseError
	err := NewTexChecker(nil).Render(`\abs{x}`, true)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, perr.Position)
}
