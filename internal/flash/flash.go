package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "notice"
	ttl        = 10 * time.Minute
)

// Notice categories, matching the form pages' styling classes.
const (
	Success = "success"
	Info    = "info"
	Danger  = "danger"
)

// Notice is a one-shot status message shown on the next rendered page.
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type noticeClaims struct {
	Notice
	jwt.RegisteredClaims
}

// Store keeps notices in a signed cookie so they survive a redirect.
type Store struct {
	secret []byte
}

func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret)}
}

// Set attaches a notice to the response, replacing any pending one.
func (s *Store) Set(w http.ResponseWriter, n Notice) error {
	claims := noticeClaims{
		Notice: n,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending notice, if any, and clears it. Tampered or expired
// cookies are discarded.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (*Notice, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	claims := &noticeClaims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	n := claims.Notice
	return &n, true
}
