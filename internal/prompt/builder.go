package prompt

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ExamplePlaceholder replaces every leaf of the schema in the example answer.
const ExamplePlaceholder = "valor extraído do documento"

// BuildFullPrompt embeds the user's objective and the schema into the
// instruction text sent to the extraction worker. It is pure: the same inputs
// always produce the same prompt.
func BuildFullPrompt(request string, schema *Schema) string {
	formatted := schema.Indented()
	keys := strings.Join(schema.Keys(), ", ")

	var b strings.Builder
	b.WriteString("Você é um assistente especializado em análise de documentos.\n\n")
	b.WriteString("OBJETIVO: " + request + "\n\n")
	b.WriteString("Analise o documento fornecido e extraia APENAS as seguintes informações em formato JSON. Use EXATAMENTE estas chaves:\n\n")
	b.WriteString(formatted + "\n\n")
	b.WriteString("CHAVES OBRIGATÓRIAS (use exatamente estes nomes):\n")
	b.WriteString(keys + "\n\n")
	b.WriteString("INSTRUÇÕES CRÍTICAS:\n")
	b.WriteString("- Retorne APENAS um objeto JSON válido, sem texto antes ou depois\n")
	b.WriteString("- Use EXATAMENTE as chaves listadas acima (" + keys + ")\n")
	b.WriteString("- NÃO adicione chaves que não estão na lista acima\n")
	b.WriteString("- NÃO remova chaves da lista acima\n")
	b.WriteString("- Use \"N/A\" para campos não encontrados no documento\n")
	b.WriteString("- Seja preciso e objetivo nas extrações\n")
	b.WriteString("- Para listas, use arrays JSON: [\"item1\", \"item2\"]\n")
	b.WriteString("- Para valores monetários, use formato \"R$ X.XXX,XX\"\n")
	b.WriteString("- Para datas, use formato DD/MM/AAAA quando possível\n")
	b.WriteString("- Para objetos aninhados, mantenha a estrutura conforme o schema\n\n")
	b.WriteString("EXEMPLO DE RESPOSTA ESPERADA:\n")
	b.WriteString(exampleAnswer(schema).Indented() + "\n\n")
	b.WriteString("Analise o documento e retorne o JSON com os dados extraídos usando APENAS as chaves acima:")
	return b.String()
}

// exampleAnswer mirrors the schema's shape with every leaf replaced by the
// placeholder.
func exampleAnswer(schema *Schema) *Schema {
	example := &Schema{fields: orderedmap.New[string, any](orderedmap.WithCapacity[string, any](schema.Len()))}
	for _, k := range schema.Keys() {
		v, _ := schema.Get(k)
		example.Set(k, placeholderLeaves(v))
	}
	return example
}

func placeholderLeaves(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = placeholderLeaves(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = placeholderLeaves(child)
		}
		return out
	default:
		return ExamplePlaceholder
	}
}
