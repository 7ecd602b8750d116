package response_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
	"github.com/stretchr/testify/assert"
)

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       string
	}{
		{
			name:       "Detail field",
			statusCode: http.StatusNotFound,
			body:       `{"detail": "Not found."}`,
			want:       "Not found.",
		},
		{
			name:       "Field errors sorted by field",
			statusCode: http.StatusBadRequest,
			body:       `{"price": ["A valid number is required."], "name": ["This field is required."]}`,
			want:       "name: This field is required.\nprice: A valid number is required.",
		},
		{
			name:       "HTML error page",
			statusCode: http.StatusInternalServerError,
			body:       `<html><body><h1>Server Error (500)</h1></body></html>`,
			want:       "500 Internal Server Error",
		},
		{
			name:       "Empty body",
			statusCode: http.StatusBadGateway,
			body:       "",
			want:       "502 Bad Gateway",
		},
		{
			name:       "Plain text",
			statusCode: http.StatusBadRequest,
			body:       "stock must be positive",
			want:       "stock must be positive",
		},
		{
			name:       "Markup in detail is stripped",
			statusCode: http.StatusBadRequest,
			body:       `{"detail": "<b>Bad</b> & broken"}`,
			want:       "Bad & broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, response.ErrorDetail(tt.statusCode, []byte(tt.body)))
		})
	}
}

func TestErrorDetailTruncatesLongBodies(t *testing.T) {
	detail := response.ErrorDetail(http.StatusBadRequest, []byte(strings.Repeat("x", 1000)))

	assert.True(t, strings.HasSuffix(detail, "…"))
	assert.Len(t, []rune(detail), 301)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Fresh mint tea", response.PlainText("<p>Fresh <script>alert(1)</script>mint tea</p>"))
}
