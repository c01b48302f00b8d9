package testsupport

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"CricketSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 建一个按测试名隔离的内存sqlite库并完成全部表迁移
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Match{},
		&model.Team{},
		&model.Player{},
		&model.MatchTeam{},
		&model.MatchPlayer{},
		&model.Inning{},
		&model.Over{},
		&model.Delivery{},
		&model.Powerplay{},
		&model.Target{},
	))
	return db
}

// NewTestLogger 静默日志器，避免测试输出噪音
func NewTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
