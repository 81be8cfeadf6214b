package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/khobor/models"
)

type errorBody struct {
	Error *models.Failure `json:"error"`
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind models.FailureKind) int {
	switch kind {
	case models.KindUnresolvable, models.KindOutOfRange:
		return http.StatusUnprocessableEntity
	case models.KindFetchFailed, models.KindSourceUnavailable, models.KindExtractionFailed:
		return http.StatusBadGateway
	case models.KindSessionNotFound:
		return http.StatusNotFound
	case models.KindInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorResponse(err error) (int, errorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := models.KindInternal
		if he.Code >= 400 && he.Code < 500 {
			kind = models.KindInvalid
		}
		return he.Code, errorBody{Error: &models.Failure{Kind: kind, Message: fmt.Sprint(he.Message)}}
	}
	f := models.FailureFrom(err)
	return statusFor(f.Kind), errorBody{Error: f}
}
