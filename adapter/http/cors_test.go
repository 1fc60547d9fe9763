package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCORS(t *testing.T) {
	testCases := []struct {
		description    string
		origins        []string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
		expectNext     bool
	}{
		{
			description:    "pre-flight is answered without reaching the api",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "*",
		},
		{
			description:    "plain request passes through",
			method:         http.MethodGet,
			expectedStatus: http.StatusAccepted,
			expectedOrigin: "*",
			expectNext:     true,
		},
		{
			description:    "any origin is reflected without allow list",
			method:         http.MethodPost,
			origin:         "http://localhost:3000",
			expectedStatus: http.StatusAccepted,
			expectedOrigin: "http://localhost:3000",
			expectNext:     true,
		},
		{
			description:    "listed origin is reflected",
			origins:        []string{"https://dashboard.example.com/"},
			method:         http.MethodPost,
			origin:         "https://dashboard.example.com",
			expectedStatus: http.StatusAccepted,
			expectedOrigin: "https://dashboard.example.com",
			expectNext:     true,
		},
		{
			description:    "unlisted origin gets no allow header",
			origins:        []string{"https://dashboard.example.com"},
			method:         http.MethodGet,
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusAccepted,
			expectNext:     true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			reached := false
			handler := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusAccepted)
			}), testCase.origins...)
			request := httptest.NewRequest(testCase.method, "/v1/api/simulations", nil)
			if testCase.origin != "" {
				request.Header.Set("Origin", testCase.origin)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.EqualValues(t, testCase.expectedStatus, recorder.Code)
			assert.EqualValues(t, testCase.expectedOrigin, recorder.Header().Get("Access-Control-Allow-Origin"))
			assert.EqualValues(t, corsMethods, recorder.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, testCase.expectNext, reached)
		})
	}
	assert.Nil(t, WithCORS(nil))
}
