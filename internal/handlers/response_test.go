package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dias221467/Language_Exchange/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unclassified",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal Server Error"}`,
		},
		{
			name:       "internal keeps cause out of body",
			err:        apperror.Internal(errors.New("secret detail")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal Server Error"}`,
		},
		{
			name:       "wrapped classified",
			err:        fmt.Errorf("accept: %w", apperror.Forbidden("nope")),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"nope"}`,
		},
		{
			name:       "rate limited",
			err:        apperror.RateLimited("slow down"),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `{"message":"slow down"}`,
		},
		{
			name:       "fields",
			err:        apperror.Validation("All fields are required").WithFields("bio"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"All fields are required","missingFields":["bio"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
