package repository

import (
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
)

// ReportRenderer transforma um resumo em documento PDF.
type ReportRenderer interface {
	Render(summary entity.ReportSummary, reportType entity.ReportType, periodLabel string, year int) ([]byte, error)
}

// RunExporter grava o resultado de uma execução do gatilho num arquivo e devolve o caminho absoluto.
type RunExporter interface {
	ExportRunToCSV(result entity.TriggerResult, filename, outputDir string) (string, error)
	ExportRunToJSON(result entity.TriggerResult, filename, outputDir string) (string, error)
}
