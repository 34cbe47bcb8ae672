package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderchain/tender-marketplace/internal/models"
)

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		limitStr   string
		offsetStr  string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", limitStr: "", offsetStr: "", wantLimit: 5, wantOffset: 0},
		{name: "explicit values", limitStr: "20", offsetStr: "10", wantLimit: 20, wantOffset: 10},
		{name: "limit above cap", limitStr: "51", wantErr: true},
		{name: "zero limit", limitStr: "0", wantErr: true},
		{name: "negative offset", limitStr: "5", offsetStr: "-1", wantErr: true},
		{name: "non-numeric limit", limitStr: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ParseLimitOffset(tt.limitStr, tt.offsetStr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestSendErrorResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	SendErrorResponse(recorder, http.StatusNotFound, "tender not found")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var errorResponse models.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errorResponse))
	assert.Equal(t, http.StatusNotFound, errorResponse.StatusCode)
	assert.Equal(t, "tender not found", errorResponse.Message)
}

func TestContainsTenderStatus(t *testing.T) {
	transitions := []models.TenderStatus{models.PublishedTender, models.ClosedTender}

	assert.True(t, ContainsTenderStatus(transitions, models.PublishedTender))
	assert.False(t, ContainsTenderStatus(transitions, models.AwardedTender))
	assert.False(t, ContainsTenderStatus(nil, models.DraftTender))
}
