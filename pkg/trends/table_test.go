package trends_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-go/pkg/trends"
	"trends-go/pkg/trends/trendstest"
)

func TestTable_AddColumnLengthMismatch(t *testing.T) {
	table := trends.NewTable(trendstest.Days("2024-01-01", 3, 1))
	assert.Error(t, table.AddColumn("a", []float64{1, 2}))
	assert.False(t, table.HasColumn("a"))
}

func TestTable_FirstColumnWins(t *testing.T) {
	table := trends.NewTable(trendstest.Days("2024-01-01", 1, 1))
	require.NoError(t, table.AddColumn("a", []float64{1}))
	require.NoError(t, table.AddColumn("a", []float64{2}))

	assert.Equal(t, []string{"a"}, table.Columns())
	assert.Equal(t, 1.0, table.Column("a")[0].Value)
}

func TestTable_ColumnCopiesInput(t *testing.T) {
	values := []float64{5}
	table := trends.NewTable(trendstest.Days("2024-01-01", 1, 1))
	require.NoError(t, table.AddColumn("a", values))
	values[0] = 99

	assert.Equal(t, 5.0, table.Column("a")[0].Value)
	assert.Nil(t, table.Column("b"))
	assert.Equal(t, 1, table.Len())
}
