package handling

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorAnswersGeneric500(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(errors.New("pq: relation \"products\" does not exist"), "Failed to list products", gecho.NewDefaultLogger(), w)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.NotContains(t, w.Body.String(), "Failed to list products")
}
