package controllers

import (
	"log/slog"
	"net/http"

	"go-storefront/services"
	"go-storefront/utils"
)

// UserController handles user-related requests
type UserController struct {
	Auth   *services.AuthService
	Cookie utils.SessionCookie
	Log    *slog.Logger
}

// NewUserController creates a new UserController
func NewUserController(auth *services.AuthService, cookie utils.SessionCookie, log *slog.Logger) *UserController {
	return &UserController{
		Auth:   auth,
		Cookie: cookie,
		Log:    log,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	user, err := uc.Auth.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, uc.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login authenticates by email or phone and sets the session cookie
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	token, user, err := uc.Auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, uc.Log, err)
		return
	}

	uc.Cookie.Set(w, token)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout clears the session cookie. It always succeeds.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	uc.Cookie.Clear(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the user behind the session cookie
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	token := uc.Cookie.Read(r)
	user, err := uc.Auth.CurrentUser(r.Context(), token)
	if err != nil {
		if token != "" {
			clearStaleSession(w, uc.Cookie, err)
		}
		writeServiceError(w, uc.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
