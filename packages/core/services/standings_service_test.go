package services_test

import (
	"testing"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStandings(t *testing.T) {
	Convey("Given four teams where B beat A and C drew D", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 4)
		a, b, c, d := teams[0], teams[1], teams[2], teams[3]
		e.schedule(t)

		ab := e.pairing(t, a.ID, b.ID)
		cd := e.pairing(t, c.ID, d.ID)
		_, err := e.matches.SetScore(e.ctx, admin, ab.ID, 0, 3)
		So(err, ShouldBeNil)
		_, err = e.matches.SetScore(e.ctx, admin, cd.ID, 2, 2)
		So(err, ShouldBeNil)

		standings := services.NewStandingsService(e.db, e.matches)

		Convey("Then the table is ordered by points with ties broken by id", func() {
			table, err := standings.Standings(e.ctx, 0)
			So(err, ShouldBeNil)
			So(table, ShouldResemble, []models.StandingEntry{
				{ID: b.ID, Name: b.Name, Points: 3},
				{ID: c.ID, Name: c.Name, Points: 1},
				{ID: d.ID, Name: d.Name, Points: 1},
				{ID: a.ID, Name: a.Name, Points: 0},
			})
		})

		Convey("Then a limit keeps only the leaders", func() {
			table, err := standings.Standings(e.ctx, 2)
			So(err, ShouldBeNil)
			So(table, ShouldHaveLength, 2)
			So(table[0].ID, ShouldEqual, b.ID)
		})

		Convey("Then results carry the derived winner", func() {
			results, err := standings.Results(e.ctx)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)

			winners := make(map[uint]*uint)
			for _, result := range results {
				So(result.Played, ShouldBeTrue)
				winners[result.ID] = result.WinnerID
			}
			So(*winners[ab.ID], ShouldEqual, b.ID)
			So(winners[cd.ID], ShouldBeNil)
		})

		Convey("Then upcoming matches exclude the played ones and name both teams", func() {
			upcoming, err := standings.UpcomingMatches(e.ctx)
			So(err, ShouldBeNil)
			So(upcoming, ShouldHaveLength, 4)
			for _, match := range upcoming {
				So(match.Played, ShouldBeFalse)
				So(match.Team1Name, ShouldNotBeBlank)
				So(match.Team2Name, ShouldNotBeBlank)
			}

			all, err := standings.Matches(e.ctx)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 6)
		})

		Convey("Then teams are listed in id order with their rosters", func() {
			list, err := standings.Teams(e.ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 4)
			So(list[0].ID, ShouldEqual, a.ID)
			So(list[3].ID, ShouldEqual, d.ID)
		})
	})

	Convey("Given no teams at all", t, func() {
		e := newEnv(t)
		standings := services.NewStandingsService(e.db, e.matches)

		Convey("Then every snapshot is an empty list, not nil", func() {
			table, err := standings.Standings(e.ctx, 5)
			So(err, ShouldBeNil)
			So(table, ShouldNotBeNil)
			So(table, ShouldBeEmpty)

			matches, err := standings.Matches(e.ctx)
			So(err, ShouldBeNil)
			So(matches, ShouldNotBeNil)

			results, err := standings.Results(e.ctx)
			So(err, ShouldBeNil)
			So(results, ShouldNotBeNil)
		})
	})
}
