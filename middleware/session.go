package middleware

import (
	"context"
	"net/http"
	"textshelf/core"

	"github.com/sirupsen/logrus"
)

type contextKey string

const sessionContextKey = contextKey("session")

// CookieName is the session cookie the browser carries between requests.
const CookieName = "session_id"

// Sessions resolves the visitor's session before the handler runs and
// persists it afterwards. A request without a cookie, or with an id the
// store does not know, gets a fresh session. The cookie is re-set on every
// response and the session is re-saved on every request, mutated or not.
func Sessions(store core.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolve(r, store)

			http.SetCookie(w, &http.Cookie{
				Name:  CookieName,
				Value: session.ID,
				Path:  "/",
			})

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))

			if err := store.SaveSession(r.Context(), session); err != nil {
				logrus.WithField("session_id", session.ID).WithError(err).Error("Failed to persist session")
			}
		})
	}
}

func resolve(r *http.Request, store core.SessionStore) *core.Session {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		session, err := store.FindSession(r.Context(), cookie.Value)
		if err == nil {
			return session
		}
		logrus.WithField("session_id", cookie.Value).Debug("Session cookie not recognized, starting fresh")
	}

	session := core.NewSession()
	if err := store.SaveSession(r.Context(), session); err != nil {
		logrus.WithField("session_id", session.ID).WithError(err).Error("Failed to create session")
	} else {
		logrus.WithField("session_id", session.ID).Info("New session created")
	}
	return session
}

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, session *core.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFrom returns the session resolved for this request, or nil when
// the Sessions middleware did not run.
func SessionFrom(ctx context.Context) *core.Session {
	session, _ := ctx.Value(sessionContextKey).(*core.Session)
	return session
}
