// Package assistant produces the business and report syntheses. It is
// strictly best-effort: a missing key, quota error or timeout degrades to a
// fixed French fallback string and never fails the caller.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/models"
)

const (
	fallbackMissingKey        = "Clé API manquante ou invalide. Configurez OPENAI_API_KEY."
	fallbackAnalysisFailed    = "Erreur lors de l'analyse des données (Vérifiez les quotas API)."
	fallbackAnalysisEmpty     = "Analyse indisponible."
	fallbackReportsMissingKey = "Clé API manquante."
	fallbackReportsFailed     = "Erreur lors de l'analyse des rapports."
	fallbackReportsEmpty      = "Synthèse indisponible."
)

type Assistant struct {
	client *openai.Client
	model  string
}

// New reads OPENAI_API_KEY / OPENAI_MODEL. With no key the assistant still
// constructs; every call then returns the missing-key fallback.
func New() *Assistant {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	a := &Assistant{model: model}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// AnalyzeBusinessData summarizes the financial health of a site in a few
// sentences.
func (a *Assistant) AnalyzeBusinessData(ctx context.Context, stats []*models.DailyStat, site string) string {
	if a.client == nil {
		return fallbackMissingKey
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fallbackAnalysisFailed
	}
	prompt := fmt.Sprintf(`Tu es un expert en business intelligence pour l'entreprise EBF.
Analyse les données suivantes pour le site : %s.
Donne un résumé court, percutant et professionnel (max 50 mots) sur la santé financière et l'activité.
Utilise un ton encourageant ou d'avertissement selon les chiffres.

Données: %s`, site, data)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "assistant", "AnalyzeBusinessData", "completion failed", site, err)
		return fallbackAnalysisFailed
	}
	if text == "" {
		return fallbackAnalysisEmpty
	}
	return text
}

// AnalyzeReports builds the supervisor synthesis over the technicians'
// reports for a period.
func (a *Assistant) AnalyzeReports(ctx context.Context, reports []*models.DailyReport, period string) string {
	if a.client == nil {
		return fallbackReportsMissingKey
	}

	data, err := json.Marshal(reports)
	if err != nil {
		return fallbackReportsFailed
	}
	prompt := fmt.Sprintf(`Tu es le superviseur technique de EBF. Voici les rapports des techniciens pour la période : %s.
Fais une synthèse structurée en 3 points :
1. Travaux accomplis majeurs.
2. Problèmes ou blocages signalés (Urgent).
3. Besoins en matériel.

Rapports : %s`, period, data)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "assistant", "AnalyzeReports", "completion failed", period, err)
		return fallbackReportsFailed
	}
	if text == "" {
		return fallbackReportsEmpty
	}
	return text
}
