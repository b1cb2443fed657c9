package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User
	user, err := r.store.GetUserByEmail(req.Context(), loginReq.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	user.LastLogin = &now
	if err := r.store.SaveUser(req.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update login state")
		return
	}

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// register handles user registration. With DISABLE_REGISTRATION set,
// self-service signup is closed and only an admin can create accounts.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	if r.cfg.DisableRegistration && !isAdminRequest(req, r.cfg.JWTSecret) {
		respondError(w, http.StatusForbidden, "Registration is closed; ask an administrator")
		return
	}

	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if regReq.Username == "" || regReq.Email == "" || len(regReq.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Username, email and a password of 8+ characters are required")
		return
	}

	// 1. Hash Password
	hashedPassword, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// 2. Create User. Self-service signups are always cashiers; an
	// elevated role is honored only when the caller already holds an
	// admin token.
	role := "cashier"
	if regReq.Role == "admin" && isAdminRequest(req, r.cfg.JWTSecret) {
		role = "admin"
	}
	user := &models.UserAuth{
		Username: regReq.Username,
		Email:    regReq.Email,
		Password: hashedPassword,
		Name:     regReq.Name,
		Role:     role,
		IsActive: true,
	}

	if err := r.store.CreateUser(req.Context(), user); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create user (email or username might exist)")
		return
	}

	// 3. Generate Tokens for immediate login
	accessToken, refreshToken, err := utils.GenerateTokens(user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "User created but failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// isAdminRequest reports whether the request carries a valid admin token.
// The register route sits outside the authed subrouter, so the check is
// done by hand here.
func isAdminRequest(req *http.Request, jwtSecret string) bool {
	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := utils.ValidateToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Tokens are stateless; the till just drops them
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
