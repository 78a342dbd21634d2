package dashboard

import (
	"net/http"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	dashsvc "github.com/angelmondragon/darkstore-backend/internal/dashboard"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

func Stats(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Stats())
	}
}

// Stores lists every store with its live alert count.
func Stores(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Stores())
	}
}

func Alerts(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Alerts())
	}
}

// ListDeliveries accepts ?view=active|upcoming|completed.
func ListDeliveries(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		view := dashsvc.DeliveryView(validators.ParseQueryString(r, "view", 16))
		deliveries, err := svc.Deliveries(view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deliveries)
	}
}
