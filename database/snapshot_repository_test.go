package database

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/processor"
)

// stubRow заполняет поля так же, как строка SELECT id, months, generated_at, row_count, payload
type stubRow struct {
	id          string
	months      int
	generatedAt time.Time
	rowCount    int
	payload     []byte
	err         error
}

func (r stubRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.id
	*dest[1].(*int) = r.months
	*dest[2].(*time.Time) = r.generatedAt
	*dest[3].(*int) = r.rowCount
	*dest[4].(*[]byte) = r.payload
	return nil
}

func encodedObservations(t *testing.T, n int) []byte {
	t.Helper()
	observations := make([]dataset.Observation, n)
	for i := range observations {
		observations[i] = dataset.Observation{
			Month:  dataset.NewMonth(2026, time.October),
			Region: dataset.RegionAPAC,
			Role:   dataset.RoleDataScientist,
			Jobs:   i,
		}
	}
	payload, err := processor.EncodeObservations(observations)
	require.NoError(t, err)
	return payload
}

func TestScanSnapshotNoRows(t *testing.T) {
	snapshot, err := scanSnapshot(stubRow{err: sql.ErrNoRows})
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestScanSnapshotQueryError(t *testing.T) {
	_, err := scanSnapshot(stubRow{err: errors.New("connection reset")})
	assert.ErrorContains(t, err, "connection reset")
}

func TestScanSnapshotDecodesPayload(t *testing.T) {
	generatedAt := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	snapshot, err := scanSnapshot(stubRow{
		id: "snap-1", months: 24, generatedAt: generatedAt, rowCount: 3, payload: encodedObservations(t, 3),
	})
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "snap-1", snapshot.ID)
	assert.Equal(t, 24, snapshot.Months)
	assert.Equal(t, generatedAt, snapshot.GeneratedAt)
	assert.Len(t, snapshot.Observations, 3)
	assert.Equal(t, 2, snapshot.Observations[2].Jobs)
}

func TestScanSnapshotRowCountMismatch(t *testing.T) {
	_, err := scanSnapshot(stubRow{id: "snap-2", months: 24, rowCount: 5, payload: encodedObservations(t, 3)})
	assert.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestScanSnapshotCorruptPayload(t *testing.T) {
	_, err := scanSnapshot(stubRow{id: "snap-3", rowCount: 1, payload: []byte("not snappy")})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestRunLogStatusesComeFromConstants(t *testing.T) {
	for _, status := range []string{RunStatusInProgress, RunStatusSuccess, RunStatusFailed} {
		assert.Contains(t, runLogTableDDL, "'"+status+"'")
		for _, query := range []string{createRunEntryQuery, updateRunSuccessQuery, updateRunFailureQuery} {
			assert.NotContains(t, query, "'"+status+"'")
		}
	}
	assert.Contains(t, runLogTableDDL, "DEFAULT '"+RunStatusInProgress+"'")

	for _, query := range []string{createRunEntryQuery, updateRunSuccessQuery, updateRunFailureQuery} {
		assert.True(t, strings.Contains(query, "status"), query)
	}
}
