package models

import (
	"net/mail"
	"time"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Avatar       string    `json:"avatar" bson:"avatar"`
	PasswordHash string    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"date" bson:"date"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errors["email"] = "Please include a valid email"
	}
	if len(r.Password) < 6 {
		errors["password"] = "Please enter a password with 6 or more characters"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if _, err := mail.ParseAddress(r.Email); err != nil {
		errors["email"] = "Please include a valid email"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
