package prompt

// GetDefault returns the built-in parts prompt template. The vehicle name is
// available as {{.Car}}.
func GetDefault() string {
	return `Você é um especialista em peças automotivas. Liste as 10 peças mais comuns para manutenção de um {{.Car}}.
Para cada peça, informe:
- nome: nome da peça
- descricao: descrição breve
- preco_medio: preço médio estimado em reais, como número (ex.: 45.50), nunca como texto

Responda somente com um JSON válido, sem explicações, exatamente neste formato:
[{"nome":"nome da peça","descricao":"descrição breve","preco_medio":0.0}]`
}
