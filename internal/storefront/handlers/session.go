package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type sessionKey struct{}

const sessionHeader = "X-Session-ID"

// SessionMiddleware pins every request to a client session. A missing
// header gets a fresh id, echoed back so the client can hold on to it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(sessionHeader)
		if sid == "" {
			sid = uuid.NewString()
		}
		w.Header().Set(sessionHeader, sid)
		ctx := context.WithValue(r.Context(), sessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey{}).(string)
	return sid
}
