package controllers

import (
	"net/http"

	"github.com/thihanaing/minpos-backend/api/responses"
	"github.com/thihanaing/minpos-backend/internal/sales"
	pkgerrors "github.com/thihanaing/minpos-backend/pkg/errors"
	"github.com/thihanaing/minpos-backend/pkg/logger"
)

// Checkout converts the cart into a recorded sale and returns it.
func Checkout(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Checkout(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}
