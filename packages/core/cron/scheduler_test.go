package cron_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tournament-api/packages/core/cron"
	"tournament-api/packages/core/models"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeAuditor struct {
	calls  int
	report *models.LedgerReport
	err    error
}

func (f *fakeAuditor) Audit(ctx context.Context) (*models.LedgerReport, error) {
	f.calls++
	return f.report, f.err
}

func TestScheduler(t *testing.T) {
	Convey("Given a scheduler writing to a buffer", t, func() {
		var buf bytes.Buffer
		scheduler := cron.NewScheduler(zerolog.New(&buf))

		Convey("When the ledger audit job finds a drift", func() {
			auditor := &fakeAuditor{report: &models.LedgerReport{
				Drifts: []models.TeamDrift{{TeamID: 3, Stored: 7, Expected: 4}},
			}}
			So(scheduler.Register(cron.LedgerAuditJob("0 */15 * * * *", auditor)), ShouldBeNil)

			Convey("Then running it now audits once and logs the team", func() {
				So(scheduler.RunNow("ledger-audit"), ShouldBeNil)
				So(auditor.calls, ShouldEqual, 1)
				So(buf.String(), ShouldContainSubstring, "Ledger drift detected")
				So(buf.String(), ShouldContainSubstring, `"team_id":3`)
				So(buf.String(), ShouldContainSubstring, `"job":"ledger-audit"`)
			})

			Convey("Then registering it twice fails", func() {
				err := scheduler.Register(cron.LedgerAuditJob("0 */15 * * * *", auditor))
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a job fails", func() {
			boom := errors.New("boom")
			So(scheduler.Register(cron.Job{
				Name: "failing",
				Spec: "@every 1h",
				Run:  func(ctx context.Context) error { return boom },
			}), ShouldBeNil)

			Convey("Then RunNow returns the error and logs it", func() {
				So(errors.Is(scheduler.RunNow("failing"), boom), ShouldBeTrue)
				So(buf.String(), ShouldContainSubstring, "Job failed")
			})
		})

		Convey("When the spec is invalid or the job unknown", func() {
			So(scheduler.Register(cron.Job{Name: "bad", Spec: "not a spec", Run: func(context.Context) error { return nil }}), ShouldNotBeNil)
			So(scheduler.RunNow("missing"), ShouldNotBeNil)
		})

		Convey("When started and stopped", func() {
			scheduler.Start()
			scheduler.Stop(context.Background())
			So(buf.String(), ShouldContainSubstring, "Cron scheduler stopped")
		})
	})
}
