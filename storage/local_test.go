package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	return s, dir
}

// TestLocalStorage_SaveGetDelete 测试暂存文件的完整生命周期
func TestLocalStorage_SaveGetDelete(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	require.NoError(t, s.SaveWithContext(ctx, "abcdeFGHIJ.png", strings.NewReader(string(content))))

	assert.FileExists(t, filepath.Join(dir, "abcdeFGHIJ.png"))

	rc, err := s.GetWithContext(ctx, "abcdeFGHIJ.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, data)

	require.NoError(t, s.DeleteWithContext(ctx, "abcdeFGHIJ.png"))

	assert.NoFileExists(t, filepath.Join(dir, "abcdeFGHIJ.png"))
}

// TestLocalStorage_SaveRefusesOverwrite 同名暂存文件不覆盖
func TestLocalStorage_SaveRefusesOverwrite(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWithContext(ctx, "abcdeFGHIJ.png", strings.NewReader("first")))
	assert.Error(t, s.SaveWithContext(ctx, "abcdeFGHIJ.png", strings.NewReader("second")))
}

// TestLocalStorage_SaveCanceledContext 已取消的上下文不写文件
func TestLocalStorage_SaveCanceledContext(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveWithContext(ctx, "abcdeFGHIJ.png", strings.NewReader("content"))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestLocalStorage_PathTraversal_Prevention 测试路径遍历防护
func TestLocalStorage_PathTraversal_Prevention(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	attempts := []string{
		"../../../etc/passwd",
		"..\\..\\windows\\system32\\config\\sam",
		"../../.env",
		"..",
		".",
		"",
		"folder/file.png",
		"/absolute/path.png",
	}

	for _, attempt := range attempts {
		t.Run("save_"+attempt, func(t *testing.T) {
			err := s.SaveWithContext(ctx, attempt, strings.NewReader("evil"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid")
		})
	}

	_, err := s.GetWithContext(ctx, "../../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, s.DeleteWithContext(ctx, "../../../etc/passwd"))
}

// TestLocalStorage_DeleteMissing 删除不存在的文件返回错误
func TestLocalStorage_DeleteMissing(t *testing.T) {
	s, _ := newTestStorage(t)
	err := s.DeleteWithContext(context.Background(), "missingAAA.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// TestLocalStorage_CleanOlderThan 测试过期暂存文件清理
func TestLocalStorage_CleanOlderThan(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWithContext(ctx, "oldFileAAA.png", strings.NewReader("old")))
	require.NoError(t, s.SaveWithContext(ctx, "newFileBBB.png", strings.NewReader("new")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "oldFileAAA.png"), old, old))

	cutoff := time.Now().Add(-24 * time.Hour)

	removed, err := s.CleanOlderThan(cutoff, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldFileAAA.png"}, removed)
	assert.FileExists(t, filepath.Join(dir, "oldFileAAA.png"), "dry run must not delete")

	removed, err = s.CleanOlderThan(cutoff, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldFileAAA.png"}, removed)

	assert.NoFileExists(t, filepath.Join(dir, "oldFileAAA.png"))
	assert.FileExists(t, filepath.Join(dir, "newFileBBB.png"))
}

func TestLocalStorage_Health(t *testing.T) {
	s, dir := newTestStorage(t)
	assert.NoError(t, s.Health(context.Background()))
	assert.Equal(t, "local", s.Name())

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, s.Health(context.Background()))
}

// TestIsValidStagingName 测试暂存文件名校验
func TestIsValidStagingName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{"id_with_ext", "abcdeFGHIJ.png", true},
		{"id_only", "abcdeFGHIJ", true},
		{"dashes", "file-with-dashes.webp", true},
		{"empty", "", false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"absolute_unix", "/etc/passwd", false},
		{"subdir", "a/b.png", false},
		{"traversal", "../file.txt", false},
		{"null_byte", "file\x00.txt", false},
		{"newline", "file\n.txt", false},
		{"shell", "file;rm -rf.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantValid, IsValidStagingName(tt.input), "name: %q", tt.input)
		})
	}
}
