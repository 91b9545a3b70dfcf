// Package paymentevents defines the payment confirmation topics and
// payloads published to the event bus.
package paymentevents

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentConfirmedV1 = "lottery.payment.confirmed.v1"

// PaymentConfirmedPayloadV1 announces an accepted payment on any rail.
type PaymentConfirmedPayloadV1 struct {
	LotteryID      string          `json:"lotteryId"`
	UserID         string          `json:"userId"`
	Method         string          `json:"method"`
	TransactionRef string          `json:"transactionRef"`
	Quantity       int             `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
	ConfirmedAt    time.Time       `json:"confirmedAt"`
}
