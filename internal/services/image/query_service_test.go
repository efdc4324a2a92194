package image

import (
	"context"
	"testing"

	"github.com/anoixa/imgdrop/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"abcdeFGHIJ.png", "abcdeFGHIJ"},
		{"abcdeFGHIJ", "abcdeFGHIJ"},
		{"abcdeFGHIJ.tar.gz", "abcdeFGHIJ"},
		{".png", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, IDFromFilename(tt.filename), tt.filename)
	}
}

func TestGetByFilename(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := NewQueryService(env.repo)

	require.NoError(t, env.repo.CreateImage(ctx, &models.Image{ID: "abcdeFGHIJ", ImageData: pngBytes}))

	for _, name := range []string{"abcdeFGHIJ.png", "abcdeFGHIJ.jpg", "abcdeFGHIJ"} {
		img, err := svc.GetByFilename(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, pngBytes, img.ImageData)
	}

	_, err := svc.GetByFilename(ctx, "doesnotexist.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestGetByFilename_LookupError(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewQueryService(env.repo)
	require.NoError(t, env.db.Migrator().DropTable(&models.Image{}))

	_, err := svc.GetByFilename(context.Background(), "abcdeFGHIJ.png")
	assert.ErrorIs(t, err, ErrLookup)
	assert.NotErrorIs(t, err, ErrImageNotFound)
}
