package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sales_dashboard/internal/sales"
)

// Messages returned in place of an insight when something goes wrong.
const (
	MsgMissingKey = "Erro: Chave de API (API_KEY) não configurada no ambiente."
	MsgEmpty      = "Não foi possível gerar insights no momento."
	MsgFailure    = "Ocorreu um erro ao comunicar com a Inteligência Artificial. Verifique sua conexão ou chave de API."
)

// Generator sends one prompt to a language model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Requester turns the current sales into a strategic report.
type Requester struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewRequester creates a Requester. A nil gen means no API key is configured.
func NewRequester(gen Generator, timeout time.Duration, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requester{gen: gen, timeout: timeout, logger: logger}
}

// Available reports whether a model is configured.
func (r *Requester) Available() bool {
	return r.gen != nil
}

// Generate returns the model's report for list, or one of the Msg constants.
// It never fails.
func (r *Requester) Generate(ctx context.Context, list []sales.Sale) string {
	if r.gen == nil {
		return MsgMissingKey
	}

	prompt, err := BuildPrompt(list)
	if err != nil {
		r.logger.Error("failed to build insight prompt", zap.Error(err))
		return MsgFailure
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.logger.Error("insight request failed", zap.Int("sales", len(list)), zap.Error(err))
		return MsgFailure
	}
	if text == "" {
		r.logger.Warn("insight request returned empty text")
		return MsgEmpty
	}
	return text
}

type saleSummary struct {
	Consultant string      `json:"consultor"`
	Type       string      `json:"tipo"`
	Value      json.Number `json:"valor"`
	Status     string      `json:"status"`
	Date       string      `json:"data"`
}

// BuildPrompt embeds a compact JSON projection of list in the report template.
func BuildPrompt(list []sales.Sale) (string, error) {
	summary := make([]saleSummary, len(list))
	for i, s := range list {
		summary[i] = saleSummary{
			Consultant: s.ConsultantName,
			Type:       string(s.Type),
			Value:      json.Number(s.Value.String()),
			Status:     string(s.Status),
			Date:       s.Date,
		}
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal sales summary: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data), nil
}

const promptTemplate = `Atue como um Gerente Comercial Sênior de uma administradora de consórcios.
Analise os seguintes dados de vendas (em formato JSON) e forneça um relatório estratégico em Markdown.

Dados de Vendas:
%s

O relatório deve conter:
1. **Resumo Executivo**: Visão geral rápida da performance.
2. **Análise por Produto**: Qual tipo de consórcio está vendendo mais e qual está parado.
3. **Performance da Equipe**: Destaque quem está indo bem e quem precisa de apoio.
4. **Recomendação Estratégica**: 3 ações práticas para aumentar as vendas no próximo mês.

Seja direto, profissional e use formatação (negrito, listas) para facilitar a leitura.
Escreva em Português do Brasil.`
