package assistant

import (
	"context"
	"os"
	"testing"
)

func TestMissingKeyFallbacks(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")
	a := New()

	got := a.AnalyzeBusinessData(context.Background(), nil, "Abidjan")
	if got != fallbackMissingKey {
		t.Errorf("AnalyzeBusinessData without key = %q", got)
	}

	got = a.AnalyzeReports(context.Background(), nil, "WEEK")
	if got != fallbackReportsMissingKey {
		t.Errorf("AnalyzeReports without key = %q", got)
	}
}

func TestModelDefault(t *testing.T) {
	os.Unsetenv("OPENAI_MODEL")
	a := New()
	if a.model == "" {
		t.Fatal("expected a default model")
	}
}
