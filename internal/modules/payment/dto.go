package payment

type CreateIntentRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// NotificationPayload is the gateway webhook body. The signature covers
// order_id + status_code + gross_amount + server key, so those fields are
// taken exactly as sent.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}
