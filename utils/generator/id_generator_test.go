package generator

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Len(t, id, IDLength)
		assert.Regexp(t, "^[a-zA-Z]{10}$", id)
		assert.True(t, IsValidID(id))
	}
}

// TestNewID_NoCollisions 概率性质：一万个标识符不应重复
func TestNewID_NoCollisions(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestNewID_UsesWholeAlphabet(t *testing.T) {
	used := make(map[rune]bool)
	for i := 0; i < 2000; i++ {
		for _, r := range NewID() {
			used[r] = true
		}
	}
	// 20000 次抽样覆盖全部 52 个字符
	assert.Len(t, used, len(IDAlphabet))
	for r := range used {
		assert.True(t, strings.ContainsRune(IDAlphabet, r))
	}
}

func TestNewID_Concurrent(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- NewID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id in concurrent generation: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abcdeFGHIJ", true},
		{"abcdeFGHI", false},
		{"abcdeFGHIJK", false},
		{"abcde1GHIJ", false},
		{"abcde-GHIJ", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidID(tt.id), tt.id)
	}
}

func BenchmarkNewID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewID()
	}
}
