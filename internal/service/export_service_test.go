package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

func newExportServiceForTest() *ExportService {
	groups, tallies := scenarioGroups()
	ranker := NewPriorityService(&fakeGroupLookup{fakeGroupCatalog{groups: groups}}, &fakeSessionStore{tallies: tallies}, DefaultScoreWeights, nil, time.UTC, nil)
	return NewExportService(ranker, zap.NewNop(), nil, nil)
}

func TestExportServiceCallOrderCSV(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	file, err := newExportServiceForTest().CallOrder(context.Background(), models.WindowAll, dto.ExportFormatCSV, now)
	require.NoError(t, err)

	assert.Equal(t, "call-order_all_20240610.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Priority,Group,Color,Regular,Extra,Missed,Score,Explanation", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,C,RED,4,0,2,2,"))
	assert.True(t, strings.HasPrefix(lines[3], "3,B,ORANGE,10,3,0,16,"))
}

func TestExportServiceCallOrderPDF(t *testing.T) {
	file, err := newExportServiceForTest().CallOrder(context.Background(), models.WindowWeek, dto.ExportFormatPDF, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceCallOrderValidation(t *testing.T) {
	svc := newExportServiceForTest()

	_, err := svc.CallOrder(context.Background(), models.WindowAll, "xlsx", time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CallOrder(context.Background(), "DAY", dto.ExportFormatCSV, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
