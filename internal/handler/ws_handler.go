/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains HandleWebSocket, which resolves the peer address, upgrades
the HTTP connection and hands the new client to the hub.
*/
package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"lanchat/internal/app/chat"
	"lanchat/internal/app/user"
	"lanchat/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(hub *chat.Hub, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket", "ip", ip)
			return
		}

		client := chat.NewClient(hub, conn, ip)

		go client.WritePump()

		if !hub.Connect(client) {
			logx.Warn("Hub is shutting down. Closing new connection.", "conn_id", client.ID())
			client.CloseSend()
			return
		}

		logx.Debug("WebSocket connection established", "conn_id", client.ID(), "ip", ip)

		client.ReadPump()
	}
}

// clientIP resolves the peer address: the first X-Forwarded-For entry, then
// the host part of RemoteAddr, then user.UnknownIP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		return user.UnknownIP
	}
	return ip
}
