package handler

import (
	"net/http"

	"lanchat/internal/pkg/netx"
	"lanchat/internal/pkg/resp"
)

// HandleHealth reports that the server is up.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "LAN Chat Server",
		})
	}
}

// HandleLocalIP returns the server's LAN address as plain text so clients on
// other machines know where to connect.
func HandleLocalIP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondText(w, r, netx.LocalIPv4())
	}
}
