package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/anoixa/imgdrop/database"
	"github.com/anoixa/imgdrop/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestRepo 每个测试使用独立的内存数据库
func setupTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Image{}))

	provider := database.NewGormProviderWithDB(db, "sqlite")
	t.Cleanup(func() { _ = provider.Close() })

	return NewRepository(provider), db
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	image := &models.Image{
		ID:        "abcdeFGHIJ",
		ImageData: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff},
		MimeType:  sql.NullString{String: "image/png", Valid: true},
	}
	require.NoError(t, repo.CreateImage(ctx, image))

	got, err := repo.GetImageByID(ctx, "abcdeFGHIJ")
	require.NoError(t, err)
	assert.Equal(t, image.ImageData, got.ImageData)
	assert.Equal(t, "image/png", got.ContentType())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.GetImageByID(context.Background(), "doesnotexi")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_IDIsCaseSensitive(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateImage(ctx, &models.Image{ID: "abcdeFGHIJ", ImageData: []byte("x")}))

	_, err := repo.GetImageByID(ctx, "ABCDEfghij")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_DuplicateIDRejected(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateImage(ctx, &models.Image{ID: "abcdeFGHIJ", ImageData: []byte("first")}))
	err := repo.CreateImage(ctx, &models.Image{ID: "abcdeFGHIJ", ImageData: []byte("second")})
	assert.Error(t, err)

	got, err := repo.GetImageByID(ctx, "abcdeFGHIJ")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.ImageData)
}

func TestRepository_NullMimeTypeFallsBack(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, db.Exec("INSERT INTO images (id, image_data, mimetype) VALUES (?, ?, NULL)", "nullMimeAA", []byte("data")).Error)

	got, err := repo.GetImageByID(ctx, "nullMimeAA")
	require.NoError(t, err)
	assert.False(t, got.MimeType.Valid)
	assert.Equal(t, "image/png", got.ContentType())
}

func TestRepository_ImageExists(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	exists, err := repo.ImageExists(ctx, "abcdeFGHIJ")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateImage(ctx, &models.Image{ID: "abcdeFGHIJ", ImageData: []byte("x")}))

	exists, err = repo.ImageExists(ctx, "abcdeFGHIJ")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_QueryErrorAfterTableDropped(t *testing.T) {
	repo, db := setupTestRepo(t)
	require.NoError(t, db.Migrator().DropTable(&models.Image{}))

	_, err := repo.GetImageByID(context.Background(), "abcdeFGHIJ")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}
