package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"refund", `%refund%`},
		{"100%", `%100\%%`},
		{"TKT_1", `%TKT\_1%`},
		{`C:\temp`, `%C:\\temp%`},
		{"%_", `%\%\_%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.search), tt.search)
	}
}
