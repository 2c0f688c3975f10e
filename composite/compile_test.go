package composite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileSimple(t *testing.T) {
	prog, err := Compile("N(I,F)")
	require.NoError(t, err)
	require.NotEmpty(t, prog)

	// word 0: '(' with repeat source N
	require.Equal(t, repeatN<<repeatSrcShift, prog[0])
	// word 3: ')'
	require.Equal(t, uint16(0), prog[3])
}

func TestCompileWhitespaceIgnored(t *testing.T) {
	a, err := Compile("N(I,F)")
	require.NoError(t, err)

	b, err := Compile(" N ( I , F ) ")
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestCompileLiteralRepeatZeroBecomesOne(t *testing.T) {
	prog, err := Compile("0I")
	require.NoError(t, err)
	require.Len(t, prog, 1)
	require.Equal(t, uint16(1)<<repeatShift|11, prog[0])
}

func TestCompileRepeatTooLargeBeforeParen(t *testing.T) {
	_, err := Compile("16(I)")
	require.Error(t, err)
}

func TestCompileRepeatTooLargeElsewhere(t *testing.T) {
	_, err := Compile("64I")
	require.Error(t, err)
}

func TestCompileUnbalancedParens(t *testing.T) {
	_, err := Compile("(I")
	require.Error(t, err)

	_, err = Compile("I)")
	require.Error(t, err)
}

func TestCompileIllegalCharacter(t *testing.T) {
	_, err := Compile("Q")
	require.Error(t, err)
}

func TestCompileDepthExceeded(t *testing.T) {
	format := ""
	for i := 0; i < 11; i++ {
		format += "("
	}
	format += "I"
	for i := 0; i < 11; i++ {
		format += ")"
	}

	_, err := Compile(format)
	require.Error(t, err)
}

func TestCompileEmpty(t *testing.T) {
	_, err := Compile("")
	require.Error(t, err)
}
