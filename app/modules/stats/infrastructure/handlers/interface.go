package statshandlers

import "net/http"

// Handlers is the HTTP surface of the stats module.
type Handlers interface {
	HandleSummary(w http.ResponseWriter, r *http.Request)
	HandleDashboard(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
}
