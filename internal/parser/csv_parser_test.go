package parser

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a;b;c\n1;2,5;3\n", ';'},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b\n1|2\n", '|'},
		{"quoted commas ignored", "\"x,y,z\";b\n\"1,2,3\";4\n", ';'},
		{"no delimiter", "single\n1\n", ','},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectDelimiter([]byte(tc.data), 0))
		})
	}
}

func TestParse(t *testing.T) {
	data := "\ufeffDépartement;Inscrits;Votants\n01; 1000 ;800\n02;n/a;\n03;300\n"

	table, err := Parse([]byte(data), DefaultParserConfig())
	require.NoError(t, err)

	assert.Equal(t, ';', table.Delimiter)
	assert.Equal(t, []string{"Département", "Inscrits", "Votants"}, table.Headers)
	require.Len(t, table.Rows, 3)

	inscrits, coerced := table.Floats(1)
	assert.Equal(t, 1, coerced)
	assert.Equal(t, 1000.0, inscrits[0])
	assert.True(t, math.IsNaN(inscrits[1]))
	assert.Equal(t, 300.0, inscrits[2])

	votants, coerced := table.Floats(2)
	assert.Equal(t, 2, coerced)
	assert.Equal(t, 800.0, votants[0])
	assert.Equal(t, []string{"800", "", ""}, table.Column(2))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("  \n"), DefaultParserConfig())
	require.ErrorIs(t, err, ErrEmptyFile)

	_, err = Parse([]byte{'a', ',', 0xff, '\n'}, DefaultParserConfig())
	require.ErrorIs(t, err, ErrInvalidUTF8)

	cfg := DefaultParserConfig()
	cfg.Delimiter = ':'
	_, err = Parse([]byte("a:b\n"), cfg)
	require.ErrorIs(t, err, ErrInvalidDelimiter)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "islands.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nom,Surface (km2)\nA,12.5\nB,x\n"), 0o644))

	table, err := Load(path, DefaultParserConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, path, table.Path)
	assert.Len(t, table.Rows, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), DefaultParserConfig(), zerolog.Nop())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, "auto": 0, ";": ';', "tab": '\t', ",": ','} {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDelimiter("::")
	require.ErrorIs(t, err, ErrInvalidDelimiter)
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber(" 3.5 ")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	for _, bad := range []string{"", "abc", "1,5", "NaN"} {
		v, ok := ParseNumber(bad)
		assert.False(t, ok, bad)
		assert.True(t, math.IsNaN(v), bad)
	}
}
