// Package httpapi exposes the authentication service over HTTP. Routing is
// chi-based; credentials travel as HttpOnly cookies with a bearer-header
// fallback for the access token and a body fallback for the refresh token.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/streamhub/authd/internal/common"
	"github.com/streamhub/authd/internal/logging"
	"github.com/streamhub/authd/internal/server/models"
	"github.com/streamhub/authd/internal/server/services"
)

// Uploaded avatars and covers are buffered up to this many bytes in memory.
const maxUploadBytes = 8 << 20

// API carries the handler dependencies. One instance serves all requests;
// all fields are read-only after construction.
type API struct {
	logger  logging.Logger
	users   *services.UserService
	media   *services.MediaService
	cookies *cookieWriter
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// decodeJSON parses the body into dst, mapping malformed input to
// common.ErrValidation before it can reach the service layer.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrValidation
	}
	return nil
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	for _, field := range []string{req.FullName, req.Username, req.Email, req.Password} {
		if strings.TrimSpace(field) == "" {
			writeError(w, common.ErrValidation)
			return
		}
	}

	view, err := a.users.Register(r.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		a.logger.Warn(r.Context(), "registration failed", "username", req.Username, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view, "user registered successfully")
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || req.Password == "" {
		writeError(w, common.ErrValidation)
		return
	}

	pair, view, err := a.users.Login(r.Context(), identifier, req.Password)
	if err != nil {
		// The internal kind is logged; the response stays generic.
		a.logger.Info(r.Context(), "login rejected", "identifier", identifier, "error", err)
		writeError(w, err)
		return
	}

	a.cookies.setTokenPair(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         view,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		// Body fallback for clients that do not hold cookies.
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := a.users.Refresh(r.Context(), token)
	if err != nil {
		a.logger.Info(r.Context(), "token refresh rejected", "error", err)
		writeError(w, err)
		return
	}

	a.cookies.setTokenPair(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed successfully")
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	if err := a.users.Logout(r.Context(), identity.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		writeError(w, err)
		return
	}

	a.cookies.clearTokenPair(w)
	writeJSON(w, http.StatusOK, nil, "user logged out successfully")
}

func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IdentityFromContext(r.Context()), "current user fetched successfully")
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, common.ErrValidation)
		return
	}

	identity := IdentityFromContext(r.Context())
	if err := a.users.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil, "password changed successfully")
}

func (a *API) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, common.ErrValidation)
		return
	}

	identity := IdentityFromContext(r.Context())
	view, err := a.users.UpdateAccount(r.Context(), identity.ID, req.FullName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view, "account details updated successfully")
}

func (a *API) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	a.handleImageUpload(w, r, "avatar", a.users.UpdateAvatar)
}

func (a *API) handleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	a.handleImageUpload(w, r, "coverImage", a.users.UpdateCoverImage)
}

// handleImageUpload reads one multipart file field, pushes it to the media
// store, and records the resulting URL on the user via store.
func (a *API) handleImageUpload(w http.ResponseWriter, r *http.Request, field string,
	store func(ctx context.Context, userID, url string) (*models.PublicUser, error)) {

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, common.ErrValidation)
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, common.ErrValidation)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, key, err := a.media.Upload(r.Context(), file, contentType)
	if err != nil {
		a.logger.Error(r.Context(), "media upload failed", "field", field, "error", err)
		writeError(w, common.ErrorInternal)
		return
	}

	identity := IdentityFromContext(r.Context())
	view, err := store(r.Context(), identity.ID, url)
	if err != nil {
		writeError(w, err)
		return
	}

	a.logger.Info(r.Context(), "image updated", "field", field, "user_id", identity.ID, "key", key)
	writeJSON(w, http.StatusOK, view, field+" updated successfully")
}
