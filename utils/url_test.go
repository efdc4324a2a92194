package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildImageURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		id       string
		ext      string
		expected string
	}{
		{"plain", "http://localhost:8080", "abcdeFGHIJ", "png", "http://localhost:8080/abcdeFGHIJ.png"},
		{"trailing slash", "https://i.example.com/", "abcdeFGHIJ", "jpg", "https://i.example.com/abcdeFGHIJ.jpg"},
		{"path prefix", "https://example.com/img", "abcdeFGHIJ", "gif", "https://example.com/img/abcdeFGHIJ.gif"},
		{"no extension", "http://localhost:8080", "abcdeFGHIJ", "", "http://localhost:8080/abcdeFGHIJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildImageURL(tt.baseURL, tt.id, tt.ext))
		})
	}
}
