package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/utils/errutil"
)

// secretTokenHeader is set by Telegram on every webhook delivery when the
// webhook was registered with a secret_token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramSecretMiddleware rejects webhook deliveries whose secret token does
// not match the one registered with Telegram. An empty configured secret
// disables the check.
func TelegramSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(secretTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				errutil.HandleHTTP(r.Context(), w,
					goerr.New("webhook secret token mismatch"),
					http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
