package http

import (
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/authstate/pkg/authsdk"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
)

// CounterHandler serves GET /v1/counter. Each call bumps a process wide
// counter.
type CounterHandler struct {
	count atomic.Int64
}

// ServeHTTP godoc
//
//	@Summary		Increment the counter
//	@Description	Requires the admin or subadmin role.
//	@Tags			Resources
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.CounterResponse	"count"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Not signed in"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Missing role"
//	@Router			/v1/counter [get].
func (h *CounterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.CounterResponse{Count: h.count.Add(1)})
}

var summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// WeatherHandler godoc
//
//	@Summary		Five day forecast
//	@Description	Requires the admin role.
//	@Tags			Resources
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		authsdk.WeatherForecast	"forecast"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Not signed in"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Missing role"
//	@Router			/v1/weather [get].
func WeatherHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := now()
		out := make([]authsdk.WeatherForecast, 5)
		for i := range out {
			c := rand.IntN(75) - 20 // #nosec G404 - demo data
			out[i] = authsdk.WeatherForecast{
				Date:         today.AddDate(0, 0, i+1).Format(time.DateOnly),
				TemperatureC: c,
				TemperatureF: 32 + int(float64(c)/0.5556),
				Summary:      summaries[rand.IntN(len(summaries))], // #nosec G404
			}
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
