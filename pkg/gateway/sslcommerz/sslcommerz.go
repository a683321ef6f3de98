// Package sslcommerz integrates the SSLCommerz hosted card checkout.
package sslcommerz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Code is the registry code served by this adapter.
const Code = "sslcommerz"

const (
	initPath     = "gwprocess/v4/api.php"
	validatePath = "validator/api/validationserverAPI.php"
	refundPath   = "validator/api/merchantTransIDvalidationAPI.php"
)

// Callback outcomes, taken from the last path segment of the return URL.
const (
	OutcomeSuccess = "success"
	OutcomeFail    = "fail"
	OutcomeCancel  = "cancel"
)

// Credentials is the shape of the registry entry's credentials blob.
type Credentials struct {
	StoreID       string `json:"store_id"`
	StorePassword string `json:"store_password"`
}

// ReturnURLs are the browser return addresses SSLCommerz redirects to.
type ReturnURLs struct {
	Success string
	Fail    string
	Cancel  string
}

// Adapter talks to SSLCommerz.
type Adapter struct {
	baseURL string
	creds   Credentials
	client  *gateway.Client
	urls    ReturnURLs
	logger  *logging.Logger
	now     func() time.Time
}

var (
	_ gateway.Adapter        = (*Adapter)(nil)
	_ gateway.CallbackParser = (*Adapter)(nil)
)

// New builds an adapter from a registry entry.
func New(entry *models.PaymentGateway, client *gateway.Client, urls ReturnURLs, logger *logging.Logger) (*Adapter, error) {
	var creds Credentials
	if len(entry.Credentials) == 0 {
		return nil, errors.New("sslcommerz: credentials missing")
	}
	if err := json.Unmarshal(entry.Credentials, &creds); err != nil {
		return nil, fmt.Errorf("sslcommerz: invalid credentials: %w", err)
	}
	if creds.StoreID == "" || creds.StorePassword == "" {
		return nil, errors.New("sslcommerz: store_id and store_password are required")
	}
	if entry.BaseURL == "" {
		return nil, errors.New("sslcommerz: base_url is required")
	}

	return &Adapter{
		baseURL: entry.BaseURL,
		creds:   creds,
		client:  client,
		urls:    urls,
		logger:  logging.OrGlobal(logger).Named("sslcommerz"),
		now:     time.Now,
	}, nil
}

// Factory returns a registry factory sharing one client.
func Factory(client *gateway.Client, urls ReturnURLs, logger *logging.Logger) gateway.Factory {
	return func(entry *models.PaymentGateway) (gateway.Adapter, error) {
		return New(entry, client, urls, logger)
	}
}

func (a *Adapter) Code() string {
	return Code
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type validationResponse struct {
	Status     string `json:"status"`
	TranID     string `json:"tran_id"`
	ValID      string `json:"val_id"`
	Amount     string `json:"amount"`
	BankTranID string `json:"bank_tran_id"`
	Error      string `json:"error"`
}

type refundResponse struct {
	APIConnect   string `json:"APIConnect"`
	Status       string `json:"status"`
	RefundRefID  string `json:"refund_ref_id"`
	ErrorReason  string `json:"errorReason"`
	BankTranID   string `json:"bank_tran_id"`
	TransID      string `json:"trans_id"`
	RefundStatus string `json:"refund_status"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (a *Adapter) InitiatePayment(ctx context.Context, amount decimal.Decimal, currency string, md gateway.Metadata) (*gateway.Response, error) {
	form := url.Values{
		"store_id":         {a.creds.StoreID},
		"store_passwd":     {a.creds.StorePassword},
		"total_amount":     {amount.StringFixed(2)},
		"currency":         {currency},
		"tran_id":          {md.TransactionToken},
		"success_url":      {a.urls.Success},
		"fail_url":         {a.urls.Fail},
		"cancel_url":       {a.urls.Cancel},
		"cus_name":         {orDefault(md.CustomerName, "Customer")},
		"cus_email":        {orDefault(md.CustomerEmail, "customer@example.com")},
		"cus_phone":        {orDefault(md.CustomerPhone, "01XXXXXXXXX")},
		"cus_add1":         {"Dhaka"},
		"cus_city":         {"Dhaka"},
		"cus_country":      {"Bangladesh"},
		"shipping_method":  {"NO"},
		"product_name":     {orDefault(md.Purpose, "Payment")},
		"product_category": {"Payment"},
		"product_profile":  {"general"},
	}

	body, status, err := a.client.PostForm(ctx, Code, "init", gateway.JoinURL(a.baseURL, initPath), form)
	if err != nil {
		return nil, err
	}

	var res sessionResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &gateway.Error{Provider: Code, Kind: gateway.KindRejected, Message: "malformed session response", Err: err}
	}
	if status >= http.StatusBadRequest || res.Status != "SUCCESS" || res.GatewayPageURL == "" {
		msg := orDefault(res.FailedReason, "session initiation rejected by SSLCommerz")
		a.logger.Warn("SSLCommerz rejected session",
			zap.String("tran_id", md.TransactionToken),
			zap.Int("http_status", status),
			zap.String("message", msg),
		)
		return &gateway.Response{Success: false, Message: msg, Raw: body}, nil
	}

	// The session key cannot be queried; status is validated later by val_id.
	return &gateway.Response{
		Success:     true,
		RedirectURL: res.GatewayPageURL,
		Status:      gateway.Status("PENDING"),
		Raw:         body,
	}, nil
}

// ExecutePayment is a no-op: the card is charged in the hosted UI.
func (a *Adapter) ExecutePayment(_ context.Context, paymentID string, _ map[string]string) (*gateway.Response, error) {
	return &gateway.Response{
		Success:   true,
		PaymentID: paymentID,
		Message:   "SSLCommerz handles payment execution in their UI",
	}, nil
}

// VerifyPayment validates a payment by its val_id.
func (a *Adapter) VerifyPayment(ctx context.Context, valID string) (*gateway.Response, error) {
	query := url.Values{
		"val_id":       {valID},
		"store_id":     {a.creds.StoreID},
		"store_passwd": {a.creds.StorePassword},
		"format":       {"json"},
	}
	body, status, err := a.client.Get(ctx, Code, "validate", gateway.JoinURL(a.baseURL, validatePath), query, nil)
	if err != nil {
		return nil, err
	}

	var res validationResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &gateway.Error{Provider: Code, Kind: gateway.KindRejected, Message: "malformed validation response", Err: err}
	}
	if status >= http.StatusBadRequest {
		return &gateway.Response{Success: false, PaymentID: valID, Message: orDefault(res.Error, "validation rejected by SSLCommerz"), Raw: body}, nil
	}
	return &gateway.Response{
		Success:   res.Status == "VALID" || res.Status == "VALIDATED",
		PaymentID: valID,
		Status:    gateway.Status(res.Status),
		Message:   res.Error,
		Raw:       body,
	}, nil
}

// RefundPayment refunds by the bank transaction id SSLCommerz reported.
func (a *Adapter) RefundPayment(ctx context.Context, bankTranID string, amount decimal.Decimal, reason string) (*gateway.Response, error) {
	form := url.Values{
		"store_id":       {a.creds.StoreID},
		"store_passwd":   {a.creds.StorePassword},
		"refund_amount":  {amount.StringFixed(2)},
		"refund_remarks": {reason},
		"bank_tran_id":   {bankTranID},
		"refund_date":    {a.now().Format("2006-01-02 15:04:05")},
		"format":         {"json"},
	}
	body, status, err := a.client.PostForm(ctx, Code, "refund", gateway.JoinURL(a.baseURL, refundPath), form)
	if err != nil {
		return nil, err
	}

	var res refundResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &gateway.Error{Provider: Code, Kind: gateway.KindRejected, Message: "malformed refund response", Err: err}
	}
	if status >= http.StatusBadRequest || res.APIConnect != "DONE" || res.Status == "failed" {
		msg := orDefault(res.ErrorReason, "refund rejected by SSLCommerz")
		a.logger.Warn("SSLCommerz rejected refund", zap.String("bank_tran_id", bankTranID), zap.String("message", msg))
		return &gateway.Response{Success: false, PaymentID: bankTranID, Message: msg, Raw: body}, nil
	}
	return &gateway.Response{
		Success:   true,
		PaymentID: bankTranID,
		Status:    gateway.Status(res.Status),
		Message:   res.RefundRefID,
		Raw:       body,
	}, nil
}

func (a *Adapter) GetPaymentStatus(ctx context.Context, valID string) (gateway.Status, error) {
	res, err := a.VerifyPayment(ctx, valID)
	if err != nil {
		return gateway.StatusUnknown, err
	}
	if res.Status == "" {
		return gateway.StatusUnknown, nil
	}
	return res.Status, nil
}

// ParseCallback reads the tran_id and val_id SSLCommerz posts back. Failed and
// cancelled returns settle the outcome without a validation call.
func (a *Adapter) ParseCallback(outcome string, params url.Values) (*gateway.Callback, error) {
	tranID := params.Get("tran_id")
	if tranID == "" {
		return nil, fmt.Errorf("%w: sslcommerz callback without tran_id", gateway.ErrInvalidCallback)
	}

	cb := &gateway.Callback{
		LookupBy:         gateway.LookupByToken,
		Key:              tranID,
		PaymentID:        params.Get("val_id"),
		GatewayReference: params.Get("val_id"),
		Raw:              gateway.RawParams(params),
	}
	switch outcome {
	case OutcomeFail:
		cb.FinalStatus = "FAILED"
	case OutcomeCancel:
		cb.FinalStatus = "CANCELLED"
	default:
		if cb.PaymentID == "" {
			return nil, fmt.Errorf("%w: sslcommerz success callback without val_id", gateway.ErrInvalidCallback)
		}
	}
	return cb, nil
}
