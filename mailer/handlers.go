package mailer

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GoldenCloudGuy/DecentraPay/lib/msg"
)

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sendHandler sends the email in the body and replies its message id.
func (m *Mailer) sendHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	var req msg.MailReq

	var res Response

	status := http.StatusOK

	defer func() {
		m.log.Info("httpreq", zap.String("from", r.RemoteAddr), zap.String("uri", r.RequestURI),
			zap.Int("status", status), zap.String("messageId", res.MessageID), zap.Error(err))
		rw.Header().Set("Content-Type", "application/json;charset=utf8")
		rw.WriteHeader(status)
		_ = json.NewEncoder(rw).Encode(&res)
	}()

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		res.Message = ErrMissing.Error()

		return
	}

	if res.MessageID, err = m.Send(r.Context(), req, "http"); err != nil {
		if errors.Is(err, ErrMissing) {
			status = http.StatusBadRequest
			res.Message = ErrMissing.Error()

			return
		}

		status = http.StatusInternalServerError
		res.Message = "Failed to send email"
		res.Error = err.Error()

		return
	}

	res.Message = "Email sent successfully!"
}
