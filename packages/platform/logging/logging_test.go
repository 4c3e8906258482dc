package logging_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"tournament-api/packages/platform/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestLogger(t *testing.T) {
	Convey("Given a router with the request logger", t, func() {
		gin.SetMode(gin.TestMode)
		var buf bytes.Buffer
		logger := logging.SetupWithWriter(&buf, "debug", "production")

		r := gin.New()
		r.Use(logging.RequestLogger(logger))
		r.GET("/ping", func(c *gin.Context) {
			zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
			c.String(http.StatusOK, "pong")
		})

		Convey("When the client sends a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(logging.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			Convey("Then it is echoed and tagged on every line", func() {
				So(w.Header().Get(logging.RequestIDHeader), ShouldEqual, "req-123")
				So(buf.String(), ShouldContainSubstring, `"request_id":"req-123"`)
				So(buf.String(), ShouldContainSubstring, "inside handler")
				So(buf.String(), ShouldContainSubstring, `"status":200`)
				So(buf.String(), ShouldContainSubstring, `"service":"tournament-api"`)
			})
		})

		Convey("When no request id is sent", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

			Convey("Then one is generated", func() {
				So(w.Header().Get(logging.RequestIDHeader), ShouldHaveLength, 36)
			})
		})

		Convey("When the level is unknown", func() {
			logging.SetupWithWriter(&buf, "loud", "production")
			So(zerolog.GlobalLevel(), ShouldEqual, zerolog.InfoLevel)
		})
	})
}
