// Package bkash integrates the bKash tokenized checkout API.
package bkash

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
	"github.com/chris/digital-wallet/pkg/tokencache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Code is the registry code served by this adapter.
const Code = "bkash"

const (
	tokenPath   = "checkout/token/grant"
	createPath  = "checkout/payment/create"
	executePath = "checkout/payment/execute/"
	queryPath   = "checkout/payment/query/"
	refundPath  = "checkout/payment/refund"

	// tokenMargin is subtracted from expires_in so a cached token is never
	// presented right at its expiry.
	tokenMargin  = 60 * time.Second
	defaultToken = 55 * time.Minute
)

// Credentials is the shape of the registry entry's credentials blob.
type Credentials struct {
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Adapter talks to bKash.
type Adapter struct {
	baseURL     string
	creds       Credentials
	client      *gateway.Client
	tokens      tokencache.Cache
	callbackURL string
	logger      *logging.Logger
}

var (
	_ gateway.Adapter        = (*Adapter)(nil)
	_ gateway.CallbackParser = (*Adapter)(nil)
)

// New builds an adapter from a registry entry.
func New(entry *models.PaymentGateway, client *gateway.Client, tokens tokencache.Cache, callbackURL string, logger *logging.Logger) (*Adapter, error) {
	var creds Credentials
	if len(entry.Credentials) == 0 {
		return nil, errors.New("bkash: credentials missing")
	}
	if err := json.Unmarshal(entry.Credentials, &creds); err != nil {
		return nil, fmt.Errorf("bkash: invalid credentials: %w", err)
	}
	if creds.AppKey == "" || creds.AppSecret == "" {
		return nil, errors.New("bkash: app_key and app_secret are required")
	}
	if entry.BaseURL == "" {
		return nil, errors.New("bkash: base_url is required")
	}
	if tokens == nil {
		tokens = tokencache.NewMemory()
	}

	return &Adapter{
		baseURL:     entry.BaseURL,
		creds:       creds,
		client:      client,
		tokens:      tokens,
		callbackURL: callbackURL,
		logger:      logging.OrGlobal(logger).Named("bkash"),
	}, nil
}

// Factory returns a registry factory sharing one client and token cache.
func Factory(client *gateway.Client, tokens tokencache.Cache, callbackURL string, logger *logging.Logger) gateway.Factory {
	return func(entry *models.PaymentGateway) (gateway.Adapter, error) {
		return New(entry, client, tokens, callbackURL, logger)
	}
}

func (a *Adapter) Code() string {
	return Code
}

type tokenResponse struct {
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	StatusCode   string `json:"statusCode"`
	StatusMsg    string `json:"statusMessage"`
}

// paymentResponse covers create, execute, query and refund answers.
type paymentResponse struct {
	PaymentID         string `json:"paymentID"`
	BkashURL          string `json:"bkashURL"`
	TrxID             string `json:"trxID"`
	RefundTrxID       string `json:"refundTrxID"`
	TransactionStatus string `json:"transactionStatus"`
	StatusCode        string `json:"statusCode"`
	StatusMessage     string `json:"statusMessage"`
	ErrorCode         string `json:"errorCode"`
	ErrorMessage      string `json:"errorMessage"`
}

func (p paymentResponse) failed(httpStatus int) bool {
	if httpStatus >= http.StatusBadRequest || p.ErrorCode != "" {
		return true
	}
	return p.StatusCode != "" && p.StatusCode != "0000"
}

func (p paymentResponse) message() string {
	switch {
	case p.ErrorMessage != "":
		return p.ErrorMessage
	case p.StatusMessage != "":
		return p.StatusMessage
	default:
		return "request rejected by bKash"
	}
}

func (a *Adapter) cacheKey() string {
	return Code + ":" + a.creds.AppKey
}

func (a *Adapter) token(ctx context.Context) (string, error) {
	if token, ok, err := a.tokens.Get(ctx, a.cacheKey()); err != nil {
		a.logger.Warn("token cache read failed", zap.Error(err))
	} else if ok {
		return token, nil
	}

	headers := map[string]string{
		"username": a.creds.Username,
		"password": a.creds.Password,
	}
	payload := map[string]string{
		"app_key":    a.creds.AppKey,
		"app_secret": a.creds.AppSecret,
	}
	body, status, err := a.client.PostJSON(ctx, Code, "token", gateway.JoinURL(a.baseURL, tokenPath), headers, payload)
	if err != nil {
		return "", err
	}

	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil || status >= http.StatusBadRequest || res.IDToken == "" {
		msg := "failed to get token from bKash"
		if res.StatusMsg != "" {
			msg = res.StatusMsg
		}
		a.logger.Error("bKash token grant failed", zap.Int("http_status", status), zap.String("message", msg))
		return "", &gateway.Error{Provider: Code, Kind: gateway.KindAuth, Message: msg, Err: err}
	}

	ttl := defaultToken
	if res.ExpiresIn > 0 {
		ttl = time.Duration(res.ExpiresIn)*time.Second - tokenMargin
	}
	if ttl > 0 {
		if err := a.tokens.Set(ctx, a.cacheKey(), res.IDToken, ttl); err != nil {
			a.logger.Warn("token cache write failed", zap.Error(err))
		}
	}
	return res.IDToken, nil
}

func (a *Adapter) authHeaders(ctx context.Context) (map[string]string, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization": token,
		"X-APP-Key":     a.creds.AppKey,
	}, nil
}

func decode(body []byte, operation string) (paymentResponse, error) {
	var res paymentResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return res, &gateway.Error{Provider: Code, Kind: gateway.KindRejected, Message: "malformed " + operation + " response", Err: err}
	}
	return res, nil
}

func (a *Adapter) InitiatePayment(ctx context.Context, amount decimal.Decimal, currency string, md gateway.Metadata) (*gateway.Response, error) {
	headers, err := a.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"amount":                amount.StringFixed(2),
		"currency":              currency,
		"intent":                "sale",
		"merchantInvoiceNumber": md.TransactionToken,
		"callbackURL":           a.callbackURL,
	}
	body, status, err := a.client.PostJSON(ctx, Code, "create", gateway.JoinURL(a.baseURL, createPath), headers, payload)
	if err != nil {
		return nil, err
	}
	res, err := decode(body, "create")
	if err != nil {
		return nil, err
	}

	if res.failed(status) || res.PaymentID == "" {
		a.logger.Warn("bKash rejected payment creation",
			zap.String("invoice", md.TransactionToken),
			zap.String("error_code", res.ErrorCode),
			zap.String("message", res.message()),
		)
		return &gateway.Response{Success: false, Message: res.message(), Raw: body}, nil
	}

	return &gateway.Response{
		Success:     true,
		PaymentID:   res.PaymentID,
		RedirectURL: res.BkashURL,
		Status:      gateway.Status(res.TransactionStatus),
		Message:     res.StatusMessage,
		Raw:         body,
	}, nil
}

func (a *Adapter) ExecutePayment(ctx context.Context, paymentID string, _ map[string]string) (*gateway.Response, error) {
	headers, err := a.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err := a.client.PostJSON(ctx, Code, "execute", gateway.JoinURL(a.baseURL, executePath+url.PathEscape(paymentID)), headers, struct{}{})
	if err != nil {
		return nil, err
	}
	res, err := decode(body, "execute")
	if err != nil {
		return nil, err
	}
	if res.failed(status) {
		a.logger.Warn("bKash rejected payment execution", zap.String("payment_id", paymentID), zap.String("message", res.message()))
		return &gateway.Response{Success: false, PaymentID: paymentID, Message: res.message(), Raw: body}, nil
	}
	return &gateway.Response{
		Success:   true,
		PaymentID: paymentID,
		Status:    gateway.Status(res.TransactionStatus),
		Message:   res.StatusMessage,
		Raw:       body,
	}, nil
}

func (a *Adapter) query(ctx context.Context, paymentID string) (paymentResponse, []byte, int, error) {
	headers, err := a.authHeaders(ctx)
	if err != nil {
		return paymentResponse{}, nil, 0, err
	}
	body, status, err := a.client.Get(ctx, Code, "query", gateway.JoinURL(a.baseURL, queryPath+url.PathEscape(paymentID)), nil, headers)
	if err != nil {
		return paymentResponse{}, nil, 0, err
	}
	res, err := decode(body, "query")
	return res, body, status, err
}

func (a *Adapter) VerifyPayment(ctx context.Context, paymentID string) (*gateway.Response, error) {
	res, body, status, err := a.query(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if res.failed(status) {
		return &gateway.Response{Success: false, PaymentID: paymentID, Message: res.message(), Raw: body}, nil
	}
	return &gateway.Response{
		Success:   true,
		PaymentID: paymentID,
		Status:    gateway.Status(res.TransactionStatus),
		Message:   res.StatusMessage,
		Raw:       body,
	}, nil
}

// RefundPayment queries the payment first, since the refund call needs its trxID.
func (a *Adapter) RefundPayment(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (*gateway.Response, error) {
	q, body, status, err := a.query(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if q.failed(status) || q.TrxID == "" {
		return &gateway.Response{Success: false, PaymentID: paymentID, Message: "payment has no completed transaction to refund", Raw: body}, nil
	}

	headers, err := a.authHeaders(ctx)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Customer requested refund"
	}
	payload := map[string]string{
		"paymentID": paymentID,
		"amount":    amount.StringFixed(2),
		"trxID":     q.TrxID,
		"sku":       "wallet",
		"reason":    reason,
	}
	body, status, err = a.client.PostJSON(ctx, Code, "refund", gateway.JoinURL(a.baseURL, refundPath), headers, payload)
	if err != nil {
		return nil, err
	}
	res, err := decode(body, "refund")
	if err != nil {
		return nil, err
	}
	if res.failed(status) {
		a.logger.Warn("bKash rejected refund", zap.String("payment_id", paymentID), zap.String("message", res.message()))
		return &gateway.Response{Success: false, PaymentID: paymentID, Message: res.message(), Raw: body}, nil
	}
	return &gateway.Response{
		Success:   true,
		PaymentID: paymentID,
		Status:    gateway.Status(res.TransactionStatus),
		Message:   res.RefundTrxID,
		Raw:       body,
	}, nil
}

func (a *Adapter) GetPaymentStatus(ctx context.Context, paymentID string) (gateway.Status, error) {
	res, err := a.VerifyPayment(ctx, paymentID)
	if err != nil {
		return gateway.StatusUnknown, err
	}
	if res.Status == "" {
		return gateway.StatusUnknown, nil
	}
	return res.Status, nil
}

// ParseCallback reads the paymentID and status parameters bKash appends to
// the callback URL. Only a success callback needs a status query.
func (a *Adapter) ParseCallback(_ string, params url.Values) (*gateway.Callback, error) {
	paymentID := params.Get("paymentID")
	if paymentID == "" {
		return nil, fmt.Errorf("%w: bkash callback without paymentID", gateway.ErrInvalidCallback)
	}

	cb := &gateway.Callback{
		LookupBy:         gateway.LookupByReference,
		Key:              paymentID,
		PaymentID:        paymentID,
		GatewayReference: params.Get("trxID"),
		Raw:              gateway.RawParams(params),
	}
	switch params.Get("status") {
	case "failure":
		cb.FinalStatus = "Failed"
	case "cancel":
		cb.FinalStatus = "Cancelled"
	}
	return cb, nil
}
