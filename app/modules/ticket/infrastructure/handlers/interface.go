package tickethandlers

import "net/http"

// Handlers is the HTTP surface of the ticket module.
type Handlers interface {
	HandleListMyTickets(w http.ResponseWriter, r *http.Request)
}
