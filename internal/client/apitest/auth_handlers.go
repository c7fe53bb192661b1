package apitest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/google/uuid"
)

type tokenPair struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := map[string][]string{}
	if !strings.Contains(req.Email, "@") {
		errs["email"] = []string{"Invalid email format"}
	}
	if len(req.Password) < 6 {
		errs["password"] = []string{"Shorter than minimum length 6."}
	}
	if len(req.FullName) < 2 {
		errs["full_name"] = []string{"Length must be between 2 and 100."}
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	a.mu.Lock()
	if _, taken := a.byEmail[strings.ToLower(req.Email)]; taken {
		a.mu.Unlock()
		writeError(w, http.StatusConflict, "Email is already registered", nil)
		return
	}
	id := a.addUserLocked(req.Email, req.Password, req.FullName, req.Phone, false)
	a.setTokenLocked(a.verifyTokens, id)
	pair, err := a.pairLocked(id)
	a.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	writeSuccess(w, http.StatusCreated, "Registration successful. Please check your e-mail to verify the account.", pair)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a.mu.Lock()
	id, ok := a.byEmail[strings.ToLower(req.Email)]
	acc := a.accounts[id]
	if !ok || acc.password != req.Password {
		a.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if !acc.user.EmailVerified {
		a.mu.Unlock()
		writeError(w, http.StatusForbidden, "Please verify your e-mail before signing in.", nil)
		return
	}
	pair, err := a.pairLocked(id)
	a.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	writeSuccess(w, http.StatusOK, "Signed in", pair)
}

func (a *API) pairLocked(id int64) (tokenPair, error) {
	access, err := a.issueLocked(id, tokenAccess)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := a.issueLocked(id, tokenRefresh)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{User: a.accounts[id].user, AccessToken: access, RefreshToken: refresh}, nil
}

// setTokenLocked replaces the user's one-time token in tokens.
func (a *API) setTokenLocked(tokens map[string]int64, id int64) string {
	for t, owner := range tokens {
		if owner == id {
			delete(tokens, t)
		}
	}
	t := uuid.NewString()
	tokens[t] = id
	return t
}

func (a *API) logout(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "Signed out", nil)
}

func (a *API) refresh(w http.ResponseWriter, r *http.Request) {
	a.sleepRefresh(r.Context())

	a.mu.Lock()
	access, err := a.issueLocked(userIDFrom(r), tokenAccess)
	a.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	writeSuccess(w, http.StatusOK, "Token refreshed", map[string]string{"access_token": access})
}

func (a *API) verifyToken(w http.ResponseWriter, r *http.Request) {
	u, _ := a.User(userIDFrom(r))
	writeSuccess(w, http.StatusOK, "Token is valid", models.UserEnvelope{User: u})
}

func (a *API) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a.mu.Lock()
	if id, ok := a.byEmail[strings.ToLower(req.Email)]; ok {
		a.setTokenLocked(a.resetTokens, id)
	}
	a.mu.Unlock()

	// same answer whether or not the address exists
	writeSuccess(w, http.StatusOK, "If the e-mail exists, a reset link has been sent.", nil)
}

func (a *API) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Validation error",
			map[string][]string{"new_password": {"Shorter than minimum length 6."}})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.resetTokens[req.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired token", nil)
		return
	}
	delete(a.resetTokens, req.Token)
	a.accounts[id].password = req.NewPassword

	writeSuccess(w, http.StatusOK, "Password has been reset", nil)
}

func (a *API) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.verifyTokens[req.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired token", nil)
		return
	}
	delete(a.verifyTokens, req.Token)
	a.accounts[id].user.EmailVerified = true

	writeSuccess(w, http.StatusOK, "E-mail verified", nil)
}

func (a *API) resendVerification(w http.ResponseWriter, r *http.Request) {
	id := userIDFrom(r)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.accounts[id].user.EmailVerified {
		writeError(w, http.StatusBadRequest, "E-mail is already verified", nil)
		return
	}
	a.setTokenLocked(a.verifyTokens, id)

	writeSuccess(w, http.StatusOK, "Verification e-mail sent", nil)
}
