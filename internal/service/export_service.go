package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
	"github.com/noah-isme/sport-planner-api/pkg/export"
)

type callOrderRanker interface {
	RankGroups(ctx context.Context, window models.RankingWindow, now time.Time) (*models.RankingResult, error)
}

type tableRenderer interface {
	Render(t export.Table) ([]byte, error)
}

// ExportFile is a rendered call-order document.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the call order as a printable list.
type ExportService struct {
	ranker callOrderRanker
	csv    tableRenderer
	pdf    tableRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the default CSV and PDF exporters.
func NewExportService(ranker callOrderRanker, logger *zap.Logger, csv tableRenderer, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{ranker: ranker, csv: csv, pdf: pdf, logger: logger}
}

// CallOrder ranks the groups for window and renders the result.
func (s *ExportService) CallOrder(ctx context.Context, window models.RankingWindow, format dto.ExportFormat, now time.Time) (*ExportFile, error) {
	var (
		renderer    tableRenderer
		contentType string
	)
	switch format {
	case dto.ExportFormatCSV:
		renderer, contentType = s.csv, "text/csv; charset=utf-8"
	case dto.ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	result, err := s.ranker.RankGroups(ctx, window, now)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(callOrderTable(result))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render call order")
	}
	s.logger.Info("call order exported", zap.String("window", string(window)), zap.String("format", string(format)), zap.Int("groups", len(result.Records)))
	return &ExportFile{
		Filename:    fmt.Sprintf("call-order_%s_%s.%s", strings.ToLower(string(window)), now.Format("20060102"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func callOrderTable(result *models.RankingResult) export.Table {
	subtitle := fmt.Sprintf("Window %s, generated %s", result.Window, result.GeneratedAt.Format("2006-01-02 15:04"))
	if result.Since != nil {
		subtitle = fmt.Sprintf("Window %s (since %s), generated %s", result.Window, result.Since.Format(models.DateLayout), result.GeneratedAt.Format("2006-01-02 15:04"))
	}
	table := export.Table{
		Title:    "Call order for extra sport moments",
		Subtitle: subtitle,
		Columns: []export.Column{
			{Header: "Priority", Width: 1},
			{Header: "Group", Width: 2},
			{Header: "Color", Width: 1.2},
			{Header: "Regular", Width: 1},
			{Header: "Extra", Width: 1},
			{Header: "Missed", Width: 1},
			{Header: "Score", Width: 1},
			{Header: "Explanation", Width: 6},
		},
		Rows:     make([][]string, 0, len(result.Records)),
		Footnote: "The lowest score is called first. Ties go to the group with more missed moments, then alphabetically.",
	}
	for _, r := range result.Records {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Priority),
			r.GroupName,
			string(r.GroupColor),
			strconv.Itoa(r.RegularMoments),
			strconv.Itoa(r.ExtraMoments),
			strconv.Itoa(r.MissedMoments),
			strconv.Itoa(r.TotalScore),
			r.Explanation,
		})
	}
	return table
}
