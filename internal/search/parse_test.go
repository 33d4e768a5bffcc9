package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/partsgpt/internal/parts"
)

const inner = `[{"nome":"Filtro de óleo","descricao":"Troca a cada 10 mil km","preco_medio":35.5},{"nome":"Vela de ignição","descricao":"Jogo com 4","preco_medio":80}]`

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", inner, inner},
		{"json fence", "```json\n" + inner + "\n```", inner},
		{"bare fence", "```\n" + inner + "\n```", inner},
		{"surrounding whitespace", "  \n```json\n" + inner + "\n```\n  ", inner},
		{"single line fence", "```json" + inner + "```", inner},
		{"crlf", "```json\r\n" + inner + "\r\n```", inner},
		{"unterminated fence", "```json\n" + inner, inner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestParseParts_FencedEqualsUnfenced(t *testing.T) {
	plain, err := ParseParts(inner)
	require.NoError(t, err)

	for _, wrapped := range []string{
		"```json\n" + inner + "\n```",
		"```\n" + inner + "\n```",
	} {
		got, err := ParseParts(wrapped)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestParseParts_Fields(t *testing.T) {
	got, err := ParseParts(inner)
	require.NoError(t, err)
	assert.Equal(t, []parts.Part{
		{Name: "Filtro de óleo", Description: "Troca a cada 10 mil km", AveragePrice: 35.5},
		{Name: "Vela de ignição", Description: "Jogo com 4", AveragePrice: 80},
	}, got)
}

func TestParseParts_SingleObjectBecomesList(t *testing.T) {
	got, err := ParseParts(`{"nome":"Bateria","descricao":"60Ah","preco_medio":450}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bateria", got[0].Name)
}

func TestParseParts_EnglishKeysAndStringPrice(t *testing.T) {
	got, err := ParseParts(`[{"name":"Brake pad","description":"Front","averagePrice":"129.90"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, parts.Part{Name: "Brake pad", Description: "Front", AveragePrice: 129.90}, got[0])
}

func TestParseParts_MissingPriceIsZero(t *testing.T) {
	for _, in := range []string{`[{"nome":"Filtro"}]`, `[{"nome":"Filtro","preco_medio":null}]`} {
		got, err := ParseParts(in)
		require.NoError(t, err, in)
		require.Len(t, got, 1)
		assert.Zero(t, got[0].AveragePrice)
	}
}

func TestParseParts_EmptyArray(t *testing.T) {
	got, err := ParseParts(`[]`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseParts_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"prose", "Aqui estão as peças mais comuns:"},
		{"truncated", `[{"nome":"Filtro"`},
		{"number", `42`},
		{"string", `"peças"`},
		{"array of strings", `["filtro","vela"]`},
		{"negative price", `[{"nome":"Filtro","preco_medio":-1}]`},
		{"overflowing price", `[{"nome":"Filtro","preco_medio":1e400}]`},
		{"formatted price string", `[{"nome":"Filtro","preco_medio":"R$ 45,90"}]`},
		{"non numeric price", `[{"nome":"Filtro","preco_medio":"abc"}]`},
		{"infinite price string", `[{"nome":"Filtro","preco_medio":"Inf"}]`},
		{"nan price string", `[{"nome":"Filtro","preco_medio":"NaN"}]`},
		{"boolean price", `[{"nome":"Filtro","preco_medio":true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParts(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}
