package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/kbukum/catalog/errors"
)

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. An absent header, another
// scheme or an empty credential yields a MissingCredential error.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", apperrors.MissingCredential()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.MissingCredential()
	}
	return token, nil
}
