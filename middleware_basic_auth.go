package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

type basicAuthMiddleware struct {
	handler  http.Handler
	user     []byte
	password []byte
}

func (b *basicAuthMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, pass, _ := req.BasicAuth()

	userBytes := []byte(user)
	passBytes := []byte(pass)

	if subtle.ConstantTimeCompare(b.user, userBytes)+subtle.ConstantTimeCompare(b.password, passBytes) == 2 {
		b.handler.ServeHTTP(w, req)

		return
	}

	response := map[string]map[string]string{
		"error": {
			"message": "Authentication is required",
			"context": "",
		},
	}

	w.Header().Set("WWW-Authenticate", `Basic realm="pinmap"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(response) // nolint: errcheck
}

func newBasicAuthMiddleware(handler http.Handler, auth configBasicAuth) http.Handler {
	return &basicAuthMiddleware{
		handler:  handler,
		user:     []byte(auth.User),
		password: []byte(auth.Password),
	}
}
