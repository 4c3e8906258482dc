package services_test

import (
	"errors"
	"testing"
	"time"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLedger(t *testing.T) {
	Convey("Given three teams with two recorded results", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 3)
		a, b, c := teams[0], teams[1], teams[2]
		e.schedule(t)

		_, err := e.matches.SetScore(e.ctx, admin, e.pairing(t, a.ID, b.ID).ID, 1, 0)
		So(err, ShouldBeNil)
		_, err = e.matches.SetScore(e.ctx, admin, e.pairing(t, b.ID, c.ID).ID, 2, 2)
		So(err, ShouldBeNil)

		now := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
		clock := clockwork.NewFakeClockAt(now)
		ledger := services.NewLedgerService(e.db, clock, e.recorder)

		Convey("When the ledger is audited untouched", func() {
			report, err := ledger.Audit(e.ctx)

			Convey("Then it is consistent", func() {
				So(err, ShouldBeNil)
				So(report.Consistent(), ShouldBeTrue)
				So(report.TeamsChecked, ShouldEqual, 3)
				So(report.PlayedMatches, ShouldEqual, 2)
				So(report.CheckedAt.Equal(now), ShouldBeTrue)
				So(report.Reconciled, ShouldBeFalse)
				So(e.recorder.audits, ShouldResemble, []int{0})
			})
		})

		Convey("When a team's points are tampered with outside the ledger", func() {
			So(e.db.Model(&models.Team{}).Where("id = ?", c.ID).Update("points", 10).Error, ShouldBeNil)

			Convey("Then the audit reports the drift without fixing it", func() {
				report, err := ledger.Audit(e.ctx)
				So(err, ShouldBeNil)
				So(report.Drifts, ShouldResemble, []models.TeamDrift{
					{TeamID: c.ID, Name: c.Name, Stored: 10, Expected: 1},
				})
				So(e.points(t, c.ID), ShouldEqual, 10)
				So(e.recorder.audits, ShouldResemble, []int{1})
			})

			Convey("Then a non-admin cannot reconcile", func() {
				_, err := ledger.Reconcile(e.ctx, models.Caller{PlayerID: a.CreatorID})
				So(errors.Is(err, services.ErrUnauthorized), ShouldBeTrue)
				So(e.points(t, c.ID), ShouldEqual, 10)
			})

			Convey("Then an admin reconcile restores the expected totals", func() {
				report, err := ledger.Reconcile(e.ctx, admin)
				So(err, ShouldBeNil)
				So(report.Reconciled, ShouldBeTrue)
				So(report.Drifts, ShouldHaveLength, 1)
				So(e.points(t, c.ID), ShouldEqual, 1)

				after, err := ledger.Audit(e.ctx)
				So(err, ShouldBeNil)
				So(after.Consistent(), ShouldBeTrue)
				So(e.points(t, a.ID), ShouldEqual, 3)
				So(e.points(t, b.ID), ShouldEqual, 1)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given three teams, a schedule and one result", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 3)
		e.player(t, 40)
		e.schedule(t)
		_, err := e.matches.SetScore(e.ctx, admin, e.pairing(t, teams[0].ID, teams[1].ID).ID, 0, 0)
		So(err, ShouldBeNil)

		Convey("Then the counts match", func() {
			stats, err := services.NewStatsService(e.db).GetStats(e.ctx)
			So(err, ShouldBeNil)
			So(stats, ShouldResemble, &models.Stats{
				TotalTeams:    3,
				TotalPlayers:  4,
				TotalMatches:  3,
				PlayedMatches: 1,
			})
		})
	})
}
