package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ranqi-ly/soul-matrix-ai/internal/app"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{"https://a.example", []string{"https://a.example"}},
		{"https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{" , ,", []string{"*"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, app.ParseOrigins(tc.in), "input %q", tc.in)
	}
}
