package prompt

// DefaultPrompt is offered for projects that have never saved a prompt.
const DefaultPrompt = `Analise o documento jurídico e extraia estas informações em JSON:

{
  "numero_processo": "Número do processo",
  "tipo_documento": "Tipo do documento",
  "partes": "Partes envolvidas",
  "juiz": "Nome do juiz",
  "data_decisao": "Data da decisão",
  "resultado": "Resultado da decisão",
  "resumo": "Resumo breve"
}

Retorne APENAS o JSON válido, sem texto adicional.`

// SchemaInstruction is the instruction sent to the model to derive a schema
// from the user's request. %s is replaced by the request text.
const SchemaInstruction = `Você gera um schema JSON para extração de dados de documentos. O schema deve refletir EXATAMENTE o que o usuário pediu para analisar.

O QUE O USUÁRIO PEDIU PARA ANALISAR/EXTRAIR:
"%s"

REGRAS OBRIGATÓRIAS:
1. Crie UM objeto JSON em que cada chave é um dado que o usuário pediu para extrair. NÃO inclua campos que o usuário não mencionou.
2. Use nomes em snake_case (ex: numero_nota, nome_fornecedor, valor_total, data_emissao).
3. O valor de cada chave deve ser uma descrição curta do que extrair (ex: "Número da nota fiscal", "Nome ou razão social do fornecedor").
4. Uma informação pedida pelo usuário pode virar uma ou mais chaves (ex: "valor e data" -> valor_total, data_pagamento).
5. NÃO invente campos "úteis" ou "jurídicos" que o usuário não pediu. Apenas o que ele solicitou.
6. Retorne APENAS o JSON, sem markdown, sem texto antes ou depois.

EXEMPLO – se o usuário disse "quero número da nota, fornecedor e valor":
{
  "numero_nota": "Número da nota fiscal",
  "fornecedor": "Nome ou razão social do fornecedor",
  "valor": "Valor total da nota"
}

Gere o schema JSON com base SOMENTE no que o usuário pediu acima:`
