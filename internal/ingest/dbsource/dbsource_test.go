package dbsource

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/csrgraph/graphctl/pkg/csr"
	"github.com/csrgraph/graphctl/pkg/idmap"
)

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestRelationshipSourceLoadsSinglePage(t *testing.T) {
	gdb, mock := openMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "source_id", "target_id", "weight"}).
		AddRow(int64(1), int64(10), int64(20), 1.5).
		AddRow(int64(2), int64(20), int64(30), 2.5)
	mock.ExpectQuery("SELECT (.+) FROM `edges`").WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) FROM `edges`").WillReturnRows(sqlmock.NewRows([]string{"id", "source_id", "target_id", "weight"}))

	root := idmap.NewLabeledIdMap(3)
	root.Add(10)
	root.Add(20)
	root.Add(30)

	importer := csr.NewImporter(csr.ImportConfig{
		Type:                 "EDGE",
		PropertyAggregations: []csr.PropertyAggregation{{Key: "weight", Aggregation: csr.AggregationSum}},
	}, root)

	src := NewRelationshipSource(gdb, "edges", 2)
	total, err := src.Load(context.Background(), importer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationshipSourceDropsUnknownIds(t *testing.T) {
	gdb, mock := openMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "source_id", "target_id", "weight"}).
		AddRow(int64(1), int64(10), int64(999), 1.0)
	mock.ExpectQuery("SELECT (.+) FROM `edges`").WillReturnRows(rows)

	root := idmap.NewLabeledIdMap(1)
	root.Add(10)

	importer := csr.NewImporter(csr.ImportConfig{Type: "EDGE"}, root)
	src := NewRelationshipSource(gdb, "edges", 10)
	total, err := src.Load(context.Background(), importer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "row count reflects rows read, not rows successfully resolved")
}
