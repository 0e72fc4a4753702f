package domain

import "time"

// IdentityClaims holds the verified facts extracted from a Firebase ID token.
// Instances are produced only by the identity provider adapter; the rest of
// the system must never construct them from client input.
type IdentityClaims struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
	AuthTime      int64  `json:"authTime"`
}

// IdentityUser is the canonical user record fetched from the identity
// provider. It may be fresher than the claims embedded in an ID token
// (e.g. a display name changed after the token was issued).
type IdentityUser struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserProfile is the shape of a users/{uid} document in Firestore.
type UserProfile struct {
	Email         string    `firestore:"email" json:"email"`
	DisplayName   string    `firestore:"displayName" json:"displayName"`
	Role          string    `firestore:"role" json:"role"`
	EmailVerified bool      `firestore:"emailVerified" json:"emailVerified"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt,omitempty"`
	LastLogin     int64     `firestore:"lastLogin" json:"lastLogin,omitempty"`
}

// Principal is the verified content of a session token, attached to the
// request context for the duration of handling it. Never persisted.
type Principal struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	EmailVerified bool      `json:"emailVerified"`
	ExpiresAt     time.Time `json:"-"`
}

// ProfileHints carries optional client-supplied profile fields sent along
// with a session exchange. Hints only influence the profile mirror, never
// the session token itself.
type ProfileHints struct {
	DisplayName string `json:"displayName"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// SessionRequest is the body of POST /auth/session.
type SessionRequest struct {
	IDToken string        `json:"idToken"`
	Profile *ProfileHints `json:"profile,omitempty"`
}

// SessionResult is returned after a successful session exchange.
type SessionResult struct {
	Token         string `json:"token"`
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
}
