package healthcheck

import (
	"net/http"

	"github.com/VinothKuppanna/pigeon-maps/internal/common"
	"github.com/gorilla/mux"
)

const PathHealthCheck = "/health-check"

type SessionCounter interface {
	Count() int
}

type StatsSource interface {
	Snapshot() map[string]int64
}

type healthResponse struct {
	Status   string           `json:"status"`
	Sessions int              `json:"sessions"`
	Gateway  map[string]int64 `json:"gateway,omitempty"`
}

func SetupRouts(router *mux.Router, sessions SessionCounter, stats StatsSource) {
	router.HandleFunc(PathHealthCheck, healthCheck(sessions, stats)).Methods(http.MethodGet)
}

func healthCheck(sessions SessionCounter, stats StatsSource) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		response := healthResponse{Status: http.StatusText(http.StatusOK)}
		if sessions != nil {
			response.Sessions = sessions.Count()
		}
		if stats != nil {
			response.Gateway = stats.Snapshot()
		}
		_ = common.RespondWithJSON(writer, http.StatusOK, response)
	}
}
