package gateways

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	storage_mocks "github.com/chris/digital-wallet/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

func TestListPaymentGateways(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.GatewayStore)
		store.On("ListGateways", mock.Anything, true).Return([]models.PaymentGateway{
			{Code: "bkash", Name: "bKash", IsActive: true, Credentials: datatypes.JSON(`{"app_secret":"s3cret"}`)},
		}, nil)
		h := NewGatewaysHandler(store, nil)

		rr := httptest.NewRecorder()
		h.ListPaymentGateways(rr, httptest.NewRequest(http.MethodGet, "/payment-gateways", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"bkash"`)
		assert.NotContains(t, rr.Body.String(), "s3cret")
	})

	t.Run("Store failure", func(t *testing.T) {
		store := new(storage_mocks.GatewayStore)
		store.On("ListGateways", mock.Anything, true).Return(nil, errors.New("timeout"))
		h := NewGatewaysHandler(store, nil)

		rr := httptest.NewRecorder()
		h.ListPaymentGateways(rr, httptest.NewRequest(http.MethodGet, "/payment-gateways", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetPaymentGateway(t *testing.T) {
	store := new(storage_mocks.GatewayStore)
	store.On("GetGateway", mock.Anything, "bkash").Return(&models.PaymentGateway{Code: "bkash", Name: "bKash", IsActive: true}, nil)
	store.On("GetGateway", mock.Anything, "stripe").Return(&models.PaymentGateway{Code: "stripe", Name: "Stripe", IsActive: false}, nil)
	store.On("GetGateway", mock.Anything, "paypal").Return(nil, storage.ErrNotFound)
	h := NewGatewaysHandler(store, nil)

	tests := []struct {
		code   string
		status int
	}{
		{"bkash", http.StatusOK},
		{"stripe", http.StatusNotFound},
		{"paypal", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.GetPaymentGateway(rr, httptest.NewRequest(http.MethodGet, "/payment-gateways/"+tt.code, nil), tt.code)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}
