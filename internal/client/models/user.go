// Package models defines the wire and session types exchanged with the UPI
// gateway and cached by the client.
package models

import "github.com/dmitrijs2005/upiwallet/internal/timex"

// User is the identity record of a registered customer. The authoritative
// copy lives on the backend; the client only caches it.
type User struct {
	ID        int64           `json:"id,omitempty"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	FullName  string          `json:"fullName"`
	CreatedAt timex.Timestamp `json:"createdAt"`
	UpdatedAt timex.Timestamp `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with u. A nil receiver yields nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type UserRegistrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
}

// UserLoginRequest logs in by username, email or phone number.
type UserLoginRequest struct {
	Identifier string `json:"identifier"`
}

// UserUpdateRequest carries the mutable profile fields; empty fields are
// omitted and left unchanged by the backend.
type UserUpdateRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"fullName,omitempty"`
}
