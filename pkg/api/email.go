package api

import (
	"errors"
	"net/http"

	"retrodesk/pkg/mail"
	"retrodesk/pkg/router"
)

func (a *API) sendEmail(w http.ResponseWriter, r *http.Request) {
	if !a.mailer.Configured() {
		router.WriteError(w, http.StatusServiceUnavailable,
			"Email service not configured. Set EMAIL_USER and EMAIL_PASS.")
		return
	}

	var msg mail.Message
	if err := decodeJSON(r, &msg); err != nil {
		router.WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	err := a.mailer.Send(r.Context(), msg)
	switch {
	case errors.Is(err, mail.ErrEmptyMessage):
		router.WriteError(w, http.StatusBadRequest, "Message is required")
	case err != nil:
		a.logger.Error("api: sending email", "error", err)
		router.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
	default:
		router.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Email sent successfully",
		})
	}
}
