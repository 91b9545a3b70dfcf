package paymenthandlers

import "net/http"

// Handlers is the HTTP surface of the payment module.
type Handlers interface {
	HandleCreateCheckoutSession(w http.ResponseWriter, r *http.Request)
	HandleCheckoutWebhook(w http.ResponseWriter, r *http.Request)
	HandleCreateOrder(w http.ResponseWriter, r *http.Request)
	HandleCaptureOrder(w http.ResponseWriter, r *http.Request)
	HandleConfirmOnChain(w http.ResponseWriter, r *http.Request)
	HandleListPayments(w http.ResponseWriter, r *http.Request)
}
