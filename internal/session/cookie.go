package session

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/reelscout/reelscout/internal/config"
)

const idKey = "sid"

// Cookies reads and writes the signed cookie carrying the session ID.
// Nothing else is stored client side.
type Cookies struct {
	store *sessions.CookieStore
	name  string
}

// NewCookies creates the cookie codec. Without a configured secret a random
// key is generated, so sessions do not survive a restart.
func NewCookies(cfg config.SessionConfig) *Cookies {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}

	name := cfg.CookieName
	if name == "" {
		name = "reelscout-session"
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Cookies{store: store, name: name}
}

// ID returns the session ID carried by r, or "" when there is none or the
// cookie does not verify.
func (c *Cookies) ID(r *http.Request) string {
	sess, err := c.store.Get(r, c.name)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[idKey].(string)
	return id
}

// Save writes the cookie for id, refreshing its expiry.
func (c *Cookies) Save(w http.ResponseWriter, r *http.Request, id string) error {
	// New ignores the existing cookie's contents, so a tampered cookie is
	// simply overwritten.
	sess, _ := c.store.New(r, c.name)
	sess.Values[idKey] = id
	return sess.Save(r, w)
}
