package userhandlers

import "net/http"

// Handlers is the HTTP surface of the user module.
type Handlers interface {
	HandleGetProfile(w http.ResponseWriter, r *http.Request)
	HandleUpdateProfile(w http.ResponseWriter, r *http.Request)
	HandleListUsers(w http.ResponseWriter, r *http.Request)
}
