package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxIDQuery = regexp.QuoteMeta(`SELECT COALESCE(MAX(id), 0) FROM sports`)

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		maxID int64
		want  int64
	}{
		{name: "empty table starts at one", maxID: 0, want: 1},
		{name: "continues after max", maxID: 41, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(maxIDQuery).
				WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(tt.maxID))

			got, err := NextID(context.Background(), mock, "sports")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNextID_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(maxIDQuery).WillReturnError(boom)

	_, err = NextID(context.Background(), mock, "sports")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sports")
}

func TestCounter(t *testing.T) {
	c := NewCounter(7)

	assert.Equal(t, int64(7), c.Next())
	assert.Equal(t, int64(8), c.Next())
	assert.Equal(t, int64(9), c.Next())
}
