package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/atestado-tools/atestado-reader/constants"
	"github.com/atestado-tools/atestado-reader/internal/extract"
)

func resolvedRecord() extract.Record {
	return extract.Record{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Fields: map[constants.Field]extract.FieldResult{
			constants.FieldCID: {
				State: constants.FieldResolved, Value: "J00",
				Confidence: 0.85, Tier: constants.TierHeuristic,
			},
			constants.FieldDoctor: {
				State: constants.FieldResolved, Value: "João Silva",
				Confidence: 0.85, Tier: constants.TierHeuristic,
			},
			constants.FieldIssueDate: {
				State: constants.FieldResolved, Value: "15/01/2025",
				Date:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
				Confidence: 0.90, Tier: constants.TierHeuristic,
			},
			constants.FieldRestDays: {
				State: constants.FieldResolved, Value: "5", Days: 5,
				Confidence: 0.85, Tier: constants.TierRegex,
			},
		},
	}
}

func partialRecord() extract.Record {
	return extract.Record{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Fields: map[constants.Field]extract.FieldResult{
			constants.FieldCID: {
				State: constants.FieldResolved, Value: "M54.5",
				Confidence: 0.40, Tier: constants.TierRegex,
			},
			constants.FieldDoctor:    {State: constants.FieldUnresolved, Reason: constants.ReasonShapeMismatch},
			constants.FieldIssueDate: {State: constants.FieldUnresolved, Reason: constants.ReasonEmptyCandidate},
			constants.FieldRestDays:  {State: constants.FieldUnresolved, Reason: constants.ReasonEmptyCandidate},
		},
		NeedsReview: true,
	}
}

func TestAppendRecordsCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atestados.xlsx")
	svc := NewService("", nil)

	require.NoError(t, svc.AppendRecords(path, []extract.Record{resolvedRecord()}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, headers, rows[0][:len(headers)])
	assert.Equal(t, "J00", rows[1][0])
	assert.Equal(t, "João Silva", rows[1][1])
	assert.Equal(t, "15/01/2025", rows[1][2])
	assert.Equal(t, "5 dias de repouso", rows[1][3])
	assert.Contains(t, rows[1][4], "CID:heuristic")
	assert.Contains(t, rows[1][4], "DiasRepouso:regex")
	assert.Equal(t, "0.86", rows[1][5])
	assert.Equal(t, "FALSE", rows[1][6])
}

func TestAppendRecordsGrowsExistingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atestados.xlsx")
	svc := NewService("", nil)

	require.NoError(t, svc.AppendRecords(path, []extract.Record{resolvedRecord()}))
	require.NoError(t, svc.AppendRecords(path, []extract.Record{partialRecord()}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "M54.5", rows[2][0])
	assert.Contains(t, rows[2][1], "Dr.", "unresolved doctor cell carries the reviewer hint")
	assert.Equal(t, "TRUE", rows[2][6])
}

func TestWorkbookBytesRoundTrip(t *testing.T) {
	svc := NewService("Custom", nil)

	b, err := svc.WorkbookBytes([]extract.Record{resolvedRecord(), partialRecord()})
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Custom")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "J00", rows[1][0])
	assert.Equal(t, "M54.5", rows[2][0])
}
