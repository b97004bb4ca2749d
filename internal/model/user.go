// Package model defines the data structures shared across the client.
package model

import (
	"encoding/json"
	"fmt"
)

// User is the account profile the backend returns after a successful
// sign-in or registration.
//
// The client never builds a User itself. It only stores and renders what the
// backend sent back, so every field mirrors the backend's JSON.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"` // provider avatar URL, may be empty
}

// UnmarshalJSON accepts the id as a JSON string or number. Password accounts
// carry integer ids, OAuth accounts string ones; both are kept as a string.
func (u *User) UnmarshalJSON(data []byte) error {
	type fields User
	aux := struct {
		ID json.RawMessage `json:"id"`
		*fields
	}{fields: (*fields)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return fmt.Errorf("model: user id: %w", err)
	}
	u.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// DisplayName returns the name to show in navigation, falling back to the
// email when the backend has no name on file.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// AuthMethod records how the current session was established.
type AuthMethod string

const (
	AuthMethodGoogle   AuthMethod = "google"
	AuthMethodLinkedIn AuthMethod = "linkedin"
	AuthMethodPassword AuthMethod = "password"
)

// Valid reports whether m is one of the known methods.
func (m AuthMethod) Valid() bool {
	switch m {
	case AuthMethodGoogle, AuthMethodLinkedIn, AuthMethodPassword:
		return true
	}
	return false
}

// APIResponse is the envelope every backend auth endpoint answers with.
//
//	{"success": true, "user": {...}, "isNewUser": false}
//	{"success": false, "message": "Invalid credentials"}
type APIResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	User      *User  `json:"user,omitempty"`
	IsNewUser bool   `json:"isNewUser,omitempty"`
}
