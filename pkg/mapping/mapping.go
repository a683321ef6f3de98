// Package mapping converts between API bodies and domain models.
package mapping

import (
	"time"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/bills"
	"github.com/chris/digital-wallet/pkg/dashboard"
	"github.com/chris/digital-wallet/pkg/instruments"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/schedule"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:                 tx.ID,
		TransactionId:      tx.TransactionID,
		UserId:             tx.UserID,
		PaymentMethodId:    tx.PaymentMethodID,
		BankAccountId:      tx.BankAccountID,
		CategoryId:         tx.CategoryID,
		ScheduledPaymentId: tx.ScheduledPaymentID,
		BillId:             tx.BillID,
		TransactionType:    api.TransactionType(tx.TransactionType),
		PaymentFor:         optional(tx.PaymentFor),
		RecipientName:      optional(tx.RecipientName),
		RecipientAccount:   optional(tx.RecipientAccount),
		RecipientBank:      optional(tx.RecipientBank),
		Amount:             tx.Amount,
		Fee:                tx.Fee,
		Currency:           tx.Currency,
		Status:             api.TransactionStatus(tx.Status),
		Description:        optional(tx.Description),
		ReferenceId:        optional(tx.ReferenceID),
		GatewayReference:   optional(tx.GatewayReference),
		ReceiptUrl:         optional(tx.ReceiptURL),
		ProcessedAt:        tx.ProcessedAt,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
}

// ToApiTransactions converts a slice of transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToTransactionStatusResult reduces a transaction to what a status poll returns.
func ToTransactionStatusResult(tx *models.Transaction) *api.TransactionStatusResult {
	return &api.TransactionStatusResult{
		TransactionId: tx.TransactionID,
		Status:        api.TransactionStatus(tx.Status),
		ReferenceId:   optional(tx.ReferenceID),
		ProcessedAt:   tx.ProcessedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

// ToCreateRequest converts an API NewTransaction into a ledger request.
func ToCreateRequest(newTx *api.NewTransaction) ledger.CreateRequest {
	return ledger.CreateRequest{
		TransactionType:  models.TransactionType(newTx.TransactionType),
		Amount:           newTx.Amount,
		Currency:         value(newTx.Currency),
		Description:      value(newTx.Description),
		CategoryID:       newTx.CategoryId,
		BillID:           newTx.BillId,
		PaymentMethodID:  newTx.PaymentMethodId,
		BankAccountID:    newTx.BankAccountId,
		RecipientName:    value(newTx.RecipientName),
		RecipientAccount: value(newTx.RecipientAccount),
		RecipientBank:    value(newTx.RecipientBank),
	}
}

// ToPayBillRequest converts an API PayBill body into a ledger request.
func ToPayBillRequest(body *api.PayBill) ledger.PayBillRequest {
	return ledger.PayBillRequest{
		Amount:          body.Amount,
		PaymentMethodID: body.PaymentMethodId,
		BankAccountID:   body.BankAccountId,
	}
}

// ToApiPaymentMethod converts a domain PaymentMethod. The full account number of cards is never stored.
func ToApiPaymentMethod(pm *models.PaymentMethod) *api.PaymentMethod {
	return &api.PaymentMethod{
		Id:                 pm.ID,
		PaymentGatewayCode: pm.PaymentGatewayCode,
		Name:               pm.Name,
		Type:               string(pm.Type),
		Provider:           optional(pm.Provider),
		AccountNumber:      optional(pm.AccountNumber),
		LastFour:           optional(pm.LastFour),
		CardBrand:          optional(pm.CardBrand),
		ExpiryMonth:        optional(pm.ExpiryMonth),
		ExpiryYear:         optional(pm.ExpiryYear),
		IsDefault:          pm.IsDefault,
		IsActive:           pm.IsActive,
		CreatedAt:          pm.CreatedAt,
	}
}

// ToApiPaymentMethods converts a slice of payment methods.
func ToApiPaymentMethods(pms []models.PaymentMethod) []*api.PaymentMethod {
	out := make([]*api.PaymentMethod, len(pms))
	for i := range pms {
		out[i] = ToApiPaymentMethod(&pms[i])
	}
	return out
}

// ToNewPaymentMethod converts an API NewPaymentMethod into a service request.
func ToNewPaymentMethod(body *api.NewPaymentMethod) instruments.NewPaymentMethod {
	return instruments.NewPaymentMethod{
		PaymentGatewayCode: body.PaymentGatewayCode,
		Name:               value(body.Name),
		Type:               models.PaymentMethodType(body.Type),
		Provider:           value(body.Provider),
		AccountNumber:      value(body.AccountNumber),
		CardNumber:         value(body.CardNumber),
		ExpiryMonth:        value(body.ExpiryMonth),
		ExpiryYear:         value(body.ExpiryYear),
		IsDefault:          body.IsDefault != nil && *body.IsDefault,
	}
}

// ToApiBankAccount converts a domain BankAccount.
func ToApiBankAccount(ba *models.BankAccount) *api.BankAccount {
	return &api.BankAccount{
		Id:            ba.ID,
		BankName:      ba.BankName,
		AccountNumber: ba.AccountNumber,
		AccountName:   ba.AccountName,
		AccountType:   ba.AccountType,
		BranchName:    optional(ba.BranchName),
		RoutingNumber: optional(ba.RoutingNumber),
		SwiftCode:     optional(ba.SwiftCode),
		IsActive:      ba.IsActive,
		IsPrimary:     ba.IsPrimary,
		VerifiedAt:    ba.VerifiedAt,
		CreatedAt:     ba.CreatedAt,
	}
}

// ToApiBankAccounts converts a slice of bank accounts.
func ToApiBankAccounts(bas []models.BankAccount) []*api.BankAccount {
	out := make([]*api.BankAccount, len(bas))
	for i := range bas {
		out[i] = ToApiBankAccount(&bas[i])
	}
	return out
}

// ToNewBankAccount converts an API NewBankAccount into a service request.
func ToNewBankAccount(body *api.NewBankAccount) instruments.NewBankAccount {
	return instruments.NewBankAccount{
		BankName:      body.BankName,
		AccountNumber: body.AccountNumber,
		AccountName:   body.AccountName,
		AccountType:   body.AccountType,
		BranchName:    value(body.BranchName),
		RoutingNumber: value(body.RoutingNumber),
		SwiftCode:     value(body.SwiftCode),
		IsPrimary:     body.IsPrimary != nil && *body.IsPrimary,
	}
}

// ToBankAccountUpdate converts an API BankAccountUpdate into a service request.
func ToBankAccountUpdate(body *api.BankAccountUpdate) instruments.BankAccountUpdate {
	return instruments.BankAccountUpdate{
		BankName:      body.BankName,
		AccountName:   body.AccountName,
		AccountType:   body.AccountType,
		BranchName:    body.BranchName,
		RoutingNumber: body.RoutingNumber,
		SwiftCode:     body.SwiftCode,
		IsActive:      body.IsActive,
		IsPrimary:     body.IsPrimary,
	}
}

// ToApiBill converts a domain Bill.
func ToApiBill(b *models.Bill) *api.Bill {
	return &api.Bill{
		Id:                     b.ID,
		Name:                   b.Name,
		BillType:               b.BillType,
		Provider:               optional(b.Provider),
		AccountNumber:          optional(b.AccountNumber),
		Amount:                 b.Amount,
		MinimumAmount:          b.MinimumAmount,
		Currency:               b.Currency,
		Frequency:              string(b.Frequency),
		NextDueDate:            openapi_types.Date{Time: b.NextDueDate},
		LastPaidDate:           toDate(b.LastPaidDate),
		PaymentStatus:          string(b.PaymentStatus),
		AutoPay:                b.AutoPay,
		DefaultPaymentMethodId: b.DefaultPaymentMethodID,
		DefaultBankAccountId:   b.DefaultBankAccountID,
		ReminderDays:           b.ReminderDays,
		IsActive:               b.IsActive,
		Notes:                  optional(b.Notes),
	}
}

// ToApiBills converts a slice of bills.
func ToApiBills(bs []models.Bill) []*api.Bill {
	out := make([]*api.Bill, len(bs))
	for i := range bs {
		out[i] = ToApiBill(&bs[i])
	}
	return out
}

// ToBillInput converts an API BillInput into a service request.
func ToBillInput(body *api.BillInput) bills.Input {
	in := bills.Input{
		Name:                   body.Name,
		BillType:               body.BillType,
		Provider:               body.Provider,
		AccountNumber:          body.AccountNumber,
		Amount:                 body.Amount,
		MinimumAmount:          body.MinimumAmount,
		Currency:               body.Currency,
		NextDueDate:            fromDate(body.NextDueDate),
		AutoPay:                body.AutoPay,
		DefaultPaymentMethodID: body.DefaultPaymentMethodId,
		DefaultBankAccountID:   body.DefaultBankAccountId,
		ReminderDays:           body.ReminderDays,
		IsActive:               body.IsActive,
		Notes:                  body.Notes,
	}
	if body.Frequency != nil {
		f := models.Frequency(*body.Frequency)
		in.Frequency = &f
	}
	return in
}

// ToApiScheduledPayment converts a domain ScheduledPayment.
func ToApiScheduledPayment(sp *models.ScheduledPayment) *api.ScheduledPayment {
	return &api.ScheduledPayment{
		Id:               sp.ID,
		Name:             sp.Name,
		PaymentType:      api.TransactionType(sp.PaymentType),
		BillId:           sp.BillID,
		PaymentMethodId:  sp.PaymentMethodID,
		BankAccountId:    sp.BankAccountID,
		RecipientName:    optional(sp.RecipientName),
		RecipientAccount: optional(sp.RecipientAccount),
		RecipientBank:    optional(sp.RecipientBank),
		Amount:           sp.Amount,
		Currency:         sp.Currency,
		Frequency:        string(sp.Frequency),
		StartDate:        openapi_types.Date{Time: sp.StartDate},
		EndDate:          toDate(sp.EndDate),
		NextScheduled:    toDate(sp.NextScheduled),
		LastProcessed:    sp.LastProcessed,
		TimesProcessed:   sp.TimesProcessed,
		Status:           string(sp.Status),
		Description:      optional(sp.Description),
	}
}

// ToApiScheduledPayments converts a slice of scheduled payments.
func ToApiScheduledPayments(sps []models.ScheduledPayment) []*api.ScheduledPayment {
	out := make([]*api.ScheduledPayment, len(sps))
	for i := range sps {
		out[i] = ToApiScheduledPayment(&sps[i])
	}
	return out
}

// ToScheduleCreateRequest converts an API NewScheduledPayment into a service request.
func ToScheduleCreateRequest(body *api.NewScheduledPayment) schedule.CreateRequest {
	req := schedule.CreateRequest{
		Name:             body.Name,
		PaymentType:      models.TransactionType(body.PaymentType),
		BillID:           body.BillId,
		PaymentMethodID:  body.PaymentMethodId,
		BankAccountID:    body.BankAccountId,
		RecipientName:    value(body.RecipientName),
		RecipientAccount: value(body.RecipientAccount),
		RecipientBank:    value(body.RecipientBank),
		Amount:           body.Amount,
		Currency:         value(body.Currency),
		Frequency:        models.Frequency(body.Frequency),
		EndDate:          fromDate(body.EndDate),
		Description:      value(body.Description),
	}
	if body.StartDate != nil {
		req.StartDate = body.StartDate.Time
	}
	return req
}

// ToScheduleUpdateRequest converts an edit body into a service request.
func ToScheduleUpdateRequest(body *api.UpdateScheduledPayment) schedule.UpdateRequest {
	return schedule.UpdateRequest{
		Name:             body.Name,
		Amount:           body.Amount,
		RecipientName:    body.RecipientName,
		RecipientAccount: body.RecipientAccount,
		RecipientBank:    body.RecipientBank,
		EndDate:          fromDate(body.EndDate),
		Description:      body.Description,
	}
}

// ToApiPaymentGateway converts a registry entry without its credentials.
func ToApiPaymentGateway(gw *models.PaymentGateway) *api.PaymentGateway {
	return &api.PaymentGateway{
		Code:              gw.Code,
		Name:              gw.Name,
		Description:       optional(gw.Description),
		SupportsRecurring: gw.SupportsRecurring,
		IsActive:          gw.IsActive,
	}
}

// ToApiPaymentGateways converts a slice of registry entries.
func ToApiPaymentGateways(gws []models.PaymentGateway) []*api.PaymentGateway {
	out := make([]*api.PaymentGateway, len(gws))
	for i := range gws {
		out[i] = ToApiPaymentGateway(&gws[i])
	}
	return out
}

// ToApiDashboardOverview converts the dashboard headline figures.
func ToApiDashboardOverview(o *dashboard.Overview) *api.DashboardOverview {
	return &api.DashboardOverview{
		TotalIncome:             o.TotalIncome,
		TotalExpenses:           o.TotalExpenses,
		UpcomingBillsCount:      o.UpcomingBillsCount,
		RecentTransactionsCount: o.RecentTransactionsCount,
	}
}

// ToApiTransactionsSummary converts a per-type summary. Totals are fixed to two decimals.
func ToApiTransactionsSummary(s *dashboard.Summary) *api.TransactionsSummary {
	group := func(in map[models.TransactionType]dashboard.TypeTotal) map[string]api.TypeSummary {
		out := make(map[string]api.TypeSummary, len(in))
		for typ, tt := range in {
			out[string(typ)] = api.TypeSummary{Count: tt.Count, TotalAmount: tt.Total.StringFixed(2)}
		}
		return out
	}
	return &api.TransactionsSummary{
		Income:   group(s.Income),
		Expenses: group(s.Expenses),
		Period: api.SummaryPeriod{
			StartDate: openapi_types.Date{Time: s.Start},
			EndDate:   openapi_types.Date{Time: s.End},
		},
	}
}
