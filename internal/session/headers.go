package session

import "net/http"

const (
	authorizationHeader = "Authorization"
	contentTypeHeader   = "Content-Type"
	contentTypeJSON     = "application/json"
	missingToken        = "null"
)

// BearerHeaders builds the header set for an authenticated call. An empty
// token yields "Bearer null".
func BearerHeaders(token string) http.Header {
	if token == "" {
		token = missingToken
	}
	h := make(http.Header, 2)
	h.Set(authorizationHeader, "Bearer "+token)
	h.Set(contentTypeHeader, contentTypeJSON)
	return h
}
