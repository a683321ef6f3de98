package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Field("amount", "amount must be greater than zero"), http.StatusUnprocessableEntity, "amount must be greater than zero"},
		{"forbidden", apperr.Forbidden("Unauthorized payment method"), http.StatusForbidden, "Unauthorized payment method"},
		{"not found", apperr.NotFound("transaction not found"), http.StatusNotFound, "transaction not found"},
		{"invalid state", apperr.InvalidState("schedule ended"), http.StatusBadRequest, "schedule ended"},
		{"persistence", apperr.Persistence("failed to record transaction", errors.New("disk full")), http.StatusInternalServerError, "failed to record transaction"},
		{"gateway", gateway.Rejected("bkash", "Payment initiation failed: declined"), http.StatusInternalServerError, "Payment initiation failed: declined"},
		{"unsupported gateway", gateway.ErrUnsupportedGateway, http.StatusInternalServerError, "Payment gateway is not available: unsupported payment gateway"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			Error(rr, nil, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
		})
	}

	t.Run("validation fields", func(t *testing.T) {
		rr := httptest.NewRecorder()

		Error(rr, nil, apperr.Field("amount", "amount must be greater than zero"))

		env := decodeEnvelope(t, rr)
		assert.Equal(t, []string{"amount must be greater than zero"}, env.Errors["amount"])
	})
}

func TestDecode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var body struct{ Name string }
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"x"}`))

		assert.True(t, Decode(rr, req, &body))
		assert.Equal(t, "x", body.Name)
	})

	t.Run("Malformed", func(t *testing.T) {
		var body struct{ Name string }
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

		assert.False(t, Decode(rr, req, &body))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.False(t, env.Success)
		assert.Len(t, env.Errors["body"], 1)
	})
}

func TestData(t *testing.T) {
	rr := httptest.NewRecorder()

	Data(rr, http.StatusCreated, "created", map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":"1"}}`, rr.Body.String())
}
