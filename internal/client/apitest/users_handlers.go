package apitest

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/go-chi/chi/v5"
)

// MaxAvatarSize bounds the multipart body accepted by upload-avatar.
const MaxAvatarSize = 5 << 20

var avatarExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := a.User(userIDFrom(r))
	writeSuccess(w, http.StatusOK, "Success", models.UserEnvelope{User: u})
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if n := len(strings.TrimSpace(req.FullName)); n < 2 || n > 100 {
		writeError(w, http.StatusBadRequest, "Validation error",
			map[string][]string{"full_name": {"Length must be between 2 and 100."}})
		return
	}

	a.mu.Lock()
	acc := a.accounts[userIDFrom(r)]
	acc.user.FullName = req.FullName
	acc.user.Phone = req.Phone
	acc.user.Address = req.Address
	acc.user.IDCard = req.IDCard
	u := acc.user
	a.mu.Unlock()

	writeSuccess(w, http.StatusOK, "Profile updated", models.UserEnvelope{User: u})
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
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
	acc := a.accounts[userIDFrom(r)]
	if acc.password != req.OldPassword {
		writeError(w, http.StatusBadRequest, "Old password is incorrect", nil)
		return
	}
	acc.password = req.NewPassword

	writeSuccess(w, http.StatusOK, "Password changed", nil)
}

func (a *API) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarSize)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided", nil)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !avatarExtensions[ext] {
		writeError(w, http.StatusBadRequest, "Invalid file type", nil)
		return
	}

	id := userIDFrom(r)
	url := fmt.Sprintf("/static/avatars/user_%d%s", id, ext)

	a.mu.Lock()
	a.accounts[id].user.AvatarURL = &url
	a.mu.Unlock()

	writeSuccess(w, http.StatusOK, "Avatar uploaded", models.AvatarData{AvatarURL: url})
}

func (a *API) listBookings(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r, 10)
	a.mu.Lock()
	items := append([]models.Record(nil), a.accounts[userIDFrom(r)].bookings...)
	a.mu.Unlock()
	writePage(w, items, page, perPage)
}

func (a *API) listFavorites(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r, 10)
	a.mu.Lock()
	items := append([]models.Record(nil), a.accounts[userIDFrom(r)].favorites...)
	a.mu.Unlock()
	writePage(w, items, page, perPage)
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r, 20)
	a.mu.Lock()
	items := append([]models.Notification(nil), a.accounts[userIDFrom(r)].notifications...)
	a.mu.Unlock()
	writePage(w, items, page, perPage)
}

// notification finds the caller's notification named in the URL.
func (a *API) notification(r *http.Request) (*account, int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, 0, false
	}
	acc := a.accounts[userIDFrom(r)]
	for i, n := range acc.notifications {
		if n.NotificationID == id {
			return acc, i, true
		}
	}
	return nil, 0, false
}

func (a *API) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, i, ok := a.notification(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Notification not found", nil)
		return
	}
	acc.notifications[i].IsRead = true
	writeSuccess(w, http.StatusOK, "Notification marked as read", nil)
}

func (a *API) deleteNotification(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, i, ok := a.notification(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Notification not found", nil)
		return
	}
	acc.notifications = append(acc.notifications[:i], acc.notifications[i+1:]...)
	writeSuccess(w, http.StatusOK, "Notification deleted", nil)
}
