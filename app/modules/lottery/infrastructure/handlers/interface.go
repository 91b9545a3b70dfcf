package lotteryhandlers

import "net/http"

// Handlers is the HTTP surface of the lottery module.
type Handlers interface {
	HandleGetCurrentRound(w http.ResponseWriter, r *http.Request)
	HandleGetRound(w http.ResponseWriter, r *http.Request)
	HandleListHistory(w http.ResponseWriter, r *http.Request)
	HandleCreateRound(w http.ResponseWriter, r *http.Request)
	HandleDrawRound(w http.ResponseWriter, r *http.Request)
}
