package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tournament-api/packages/core/services"
	"tournament-api/packages/platform/metrics"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

var _ services.Recorder = (*metrics.Manager)(nil)

func scrape(m *metrics.Manager) string {
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := metrics.NewManager()

		Convey("When ledger events are recorded", func() {
			m.ScheduleGenerated(6)
			m.PointsSettled(services.SettlementAward)
			m.PointsSettled(services.SettlementAward)
			m.PointsSettled(services.SettlementReverse)
			m.LedgerAudited(2)

			Convey("Then they are exposed on the registry", func() {
				body := scrape(m)
				So(body, ShouldContainSubstring, "tournament_schedule_generated_total 1")
				So(body, ShouldContainSubstring, "tournament_schedule_fixtures_generated_total 6")
				So(body, ShouldContainSubstring, `tournament_ledger_settlements_total{operation="award"} 2`)
				So(body, ShouldContainSubstring, `tournament_ledger_settlements_total{operation="reverse"} 1`)
				So(body, ShouldContainSubstring, "tournament_ledger_drifted_teams 2")
				So(body, ShouldContainSubstring, "tournament_ledger_audits_total 1")
			})
		})

		Convey("When requests go through the gin middleware", func() {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(m.GinMiddleware())
			r.GET("/teams/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

			for _, path := range []string{"/teams/1", "/teams/2", "/nowhere"} {
				r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
			}

			Convey("Then they are labelled by route template", func() {
				body := scrape(m)
				So(body, ShouldContainSubstring, `tournament_http_requests_total{method="GET",route="/teams/:id",status="200"} 2`)
				So(body, ShouldContainSubstring, `route="unmatched",status="404"`)
			})
		})
	})
}
