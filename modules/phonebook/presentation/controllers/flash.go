package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
)

const flashCookie = "phonebook_flash"

func setFlash(w http.ResponseWriter, kind, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(kind + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
	})
}

// popFlash reads and clears the flash cookie set by the previous request.
func popFlash(w http.ResponseWriter, r *http.Request) *viewmodels.Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil
	}
	return &viewmodels.Flash{Kind: kind, Message: message}
}
