package render

import (
	"encoding/json"
	"net/http"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/codes"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	Status(w, http.StatusOK, v)
}

// Status render v with the given status code
func Status(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// Error write err as {code, msg} with the mapped http status,
// server side details are logged and never exposed
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code, status := codes.Get(err)

	msg := code.Message()
	if status < http.StatusInternalServerError {
		msg = err.Error()
	} else {
		logger.FromContext(r.Context()).WithError(err).Errorln("request failed")
	}

	Status(w, status, H{"code": int(code), "msg": msg})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, r, core.ErrInvalidArgument.With(err))
}

// NotFound route not found
func NotFound(w http.ResponseWriter, r *http.Request) {
	Status(w, http.StatusNotFound, H{"code": http.StatusNotFound, "msg": "not found"})
}
