package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/anoixa/imgdrop/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), name)), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func seedImages(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&models.Image{}))
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.Image{
			ID:        fmt.Sprintf("image%05d", i),
			ImageData: []byte{byte(i)},
			MimeType:  sql.NullString{String: "image/png", Valid: true},
		}).Error)
	}
}

func TestCopyImages_AllBatches(t *testing.T) {
	source := openMemoryDB(t, "src")
	target := openMemoryDB(t, "dst")
	seedImages(t, source, 25)

	stats, err := CopyImages(context.Background(), source, target, 10, ConflictSkip)
	require.NoError(t, err)
	assert.Equal(t, int64(25), stats.Total)
	assert.Equal(t, 25, stats.Copied)
	assert.Zero(t, stats.Skipped)

	var got models.Image
	require.NoError(t, target.Where("id = ?", "image00024").Take(&got).Error)
	assert.Equal(t, []byte{24}, got.ImageData)
	assert.Equal(t, "image/png", got.ContentType())
}

func TestCopyImages_ConflictStrategies(t *testing.T) {
	newPair := func(t *testing.T) (*gorm.DB, *gorm.DB) {
		source := openMemoryDB(t, "src")
		target := openMemoryDB(t, "dst")
		seedImages(t, source, 3)
		require.NoError(t, target.AutoMigrate(&models.Image{}))
		require.NoError(t, target.Create(&models.Image{ID: "image00001", ImageData: []byte("old")}).Error)
		return source, target
	}

	t.Run("skip", func(t *testing.T) {
		source, target := newPair(t)
		stats, err := CopyImages(context.Background(), source, target, 2, ConflictSkip)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Copied)
		assert.Equal(t, 1, stats.Skipped)

		var got models.Image
		require.NoError(t, target.Where("id = ?", "image00001").Take(&got).Error)
		assert.Equal(t, []byte("old"), got.ImageData)
	})

	t.Run("overwrite", func(t *testing.T) {
		source, target := newPair(t)
		stats, err := CopyImages(context.Background(), source, target, 2, ConflictOverwrite)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Copied)
		assert.Equal(t, 1, stats.Overwritten)

		var got models.Image
		require.NoError(t, target.Where("id = ?", "image00001").Take(&got).Error)
		assert.Equal(t, []byte{1}, got.ImageData)
		assert.Equal(t, "image/png", got.MimeType.String)
	})

	t.Run("error", func(t *testing.T) {
		source, target := newPair(t)
		_, err := CopyImages(context.Background(), source, target, 2, ConflictError)
		assert.ErrorIs(t, err, ErrRecordExists)
	})
}

func TestParseConflictStrategy(t *testing.T) {
	for _, s := range []string{"skip", "overwrite", "error"} {
		got, err := ParseConflictStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, ConflictStrategy(s), got)
	}

	_, err := ParseConflictStrategy("merge")
	assert.Error(t, err)
}

func TestFactory_AutoMigrateAndPing(t *testing.T) {
	db := openMemoryDB(t, "factory")
	factory := NewFactoryWithProvider(NewGormProviderWithDB(db, "sqlite"))

	require.NoError(t, factory.AutoMigrate())
	assert.True(t, db.Migrator().HasTable("images"))
	assert.NoError(t, factory.GetProvider().Ping(context.Background()))
	assert.Equal(t, "sqlite", factory.GetProvider().Name())
}

func TestFactory_AutoMigrateWithoutProvider(t *testing.T) {
	factory := NewFactoryWithProvider(nil)
	assert.Error(t, factory.AutoMigrate())
	assert.NoError(t, factory.Close())
}
