package services_test

import (
	"errors"
	"strings"
	"testing"

	"tournament-api/packages/core/models"
	"tournament-api/packages/core/services"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCreateTeam(t *testing.T) {
	Convey("Given a registered player", t, func() {
		e := newEnv(t)
		owner := e.player(t, 1)
		caller := models.Caller{PlayerID: owner.ID}

		Convey("When they create a team with surrounding whitespace", func() {
			team, err := e.teams.CreateTeam(e.ctx, caller, "  Night Owls  ")

			Convey("Then the team is stored trimmed, owned by them, with zero points", func() {
				So(err, ShouldBeNil)
				So(team.Name, ShouldEqual, "Night Owls")
				So(team.CreatorID, ShouldEqual, owner.ID)
				So(team.Creator.Name, ShouldEqual, owner.Name)
				So(team.Points, ShouldEqual, 0)
				So(team.Players, ShouldBeEmpty)
			})
		})

		Convey("When the name is blank or too long", func() {
			_, blank := e.teams.CreateTeam(e.ctx, caller, "   ")
			_, long := e.teams.CreateTeam(e.ctx, caller, strings.Repeat("x", 256))

			Convey("Then both are rejected as invalid teams", func() {
				So(errors.Is(blank, services.ErrInvalidTeam), ShouldBeTrue)
				So(errors.Is(long, services.ErrInvalidTeam), ShouldBeTrue)
			})
		})

		Convey("When an unknown player creates a team", func() {
			_, err := e.teams.CreateTeam(e.ctx, models.Caller{PlayerID: 404}, "Ghosts")

			Convey("Then the player is not found", func() {
				So(errors.Is(err, services.ErrPlayerNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestUpdateTeam(t *testing.T) {
	Convey("Given a team owned by player 1", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 2)
		team := teams[0]

		Convey("Then the owner can rename it", func() {
			updated, err := e.teams.UpdateTeam(e.ctx, models.Caller{PlayerID: team.CreatorID}, team.ID, "Renamed")
			So(err, ShouldBeNil)
			So(updated.Name, ShouldEqual, "Renamed")
		})

		Convey("Then another player and an admin who does not own it cannot", func() {
			_, err := e.teams.UpdateTeam(e.ctx, models.Caller{PlayerID: teams[1].CreatorID}, team.ID, "Stolen")
			So(errors.Is(err, services.ErrUnauthorized), ShouldBeTrue)

			_, err = e.teams.UpdateTeam(e.ctx, admin, team.ID, "Stolen")
			So(errors.Is(err, services.ErrUnauthorized), ShouldBeTrue)

			stored, _ := e.teams.GetTeamByID(e.ctx, team.ID)
			So(stored.Name, ShouldEqual, team.Name)
		})

		Convey("Then a missing team is reported as not found", func() {
			_, err := e.teams.UpdateTeam(e.ctx, models.Caller{PlayerID: team.CreatorID}, 999, "Nope")
			So(errors.Is(err, services.ErrTeamNotFound), ShouldBeTrue)
		})
	})
}

func TestDeleteTeam(t *testing.T) {
	Convey("Given three teams with results A-B 2:0, B-C 1:1 and A-C 0:1", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 3)
		a, b, c := teams[0], teams[1], teams[2]
		e.schedule(t)

		for _, result := range []struct {
			home, away uint
			s1, s2     int
		}{
			{a.ID, b.ID, 2, 0},
			{b.ID, c.ID, 1, 1},
			{a.ID, c.ID, 0, 1},
		} {
			match := e.pairing(t, result.home, result.away)
			_, err := e.matches.SetScore(e.ctx, admin, match.ID, result.s1, result.s2)
			So(err, ShouldBeNil)
		}

		So(e.points(t, a.ID), ShouldEqual, 3)
		So(e.points(t, b.ID), ShouldEqual, 1)
		So(e.points(t, c.ID), ShouldEqual, 4)

		teammate := e.player(t, 50)
		_, err := e.teams.AddPlayer(e.ctx, models.Caller{PlayerID: a.CreatorID}, a.ID, teammate.ID)
		So(err, ShouldBeNil)

		Convey("When the owner deletes team A", func() {
			err := e.teams.DeleteTeam(e.ctx, models.Caller{PlayerID: a.CreatorID}, a.ID)

			Convey("Then its matches are gone and opponents lose what they earned against it", func() {
				So(err, ShouldBeNil)

				remaining, _ := e.matches.GetMatches(e.ctx, services.MatchFilters{})
				So(remaining, ShouldHaveLength, 1)
				So(remaining[0].Involves(a.ID), ShouldBeFalse)

				So(e.points(t, b.ID), ShouldEqual, 1)
				So(e.points(t, c.ID), ShouldEqual, 1)

				_, err := e.teams.GetTeamByID(e.ctx, a.ID)
				So(errors.Is(err, services.ErrTeamNotFound), ShouldBeTrue)
			})

			Convey("Then its former players are free agents again", func() {
				player, err := e.players.GetPlayerByID(e.ctx, teammate.ID)
				So(err, ShouldBeNil)
				So(player.TeamID, ShouldBeNil)
			})

			Convey("Then the ledger still balances", func() {
				report, err := services.NewLedgerService(e.db, nil, nil).Audit(e.ctx)
				So(err, ShouldBeNil)
				So(report.Consistent(), ShouldBeTrue)
			})
		})

		Convey("When an admin deletes a team they do not own", func() {
			err := e.teams.DeleteTeam(e.ctx, admin, b.ID)

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
				So(e.points(t, a.ID), ShouldEqual, 0)
				So(e.points(t, c.ID), ShouldEqual, 3)
			})
		})

		Convey("When another player tries to delete it", func() {
			err := e.teams.DeleteTeam(e.ctx, models.Caller{PlayerID: b.CreatorID}, a.ID)

			Convey("Then nothing changes", func() {
				So(errors.Is(err, services.ErrUnauthorized), ShouldBeTrue)
				remaining, _ := e.matches.GetMatches(e.ctx, services.MatchFilters{})
				So(remaining, ShouldHaveLength, 3)
				So(e.points(t, c.ID), ShouldEqual, 4)
			})
		})
	})
}

func TestTeamRoster(t *testing.T) {
	Convey("Given two teams and a free player", t, func() {
		e := newEnv(t)
		teams := e.seedTeams(t, 2)
		first, second := teams[0], teams[1]
		owner := models.Caller{PlayerID: first.CreatorID}
		free := e.player(t, 30)

		Convey("When the owner adds the player", func() {
			team, err := e.teams.AddPlayer(e.ctx, owner, first.ID, free.ID)

			Convey("Then the roster contains them", func() {
				So(err, ShouldBeNil)
				So(team.Players, ShouldHaveLength, 1)
				So(team.Players[0].ID, ShouldEqual, free.ID)
			})

			Convey("And adding them again is a no-op", func() {
				team, err := e.teams.AddPlayer(e.ctx, owner, first.ID, free.ID)
				So(err, ShouldBeNil)
				So(team.Players, ShouldHaveLength, 1)
			})

			Convey("And the other team cannot take them", func() {
				_, err := e.teams.AddPlayer(e.ctx, models.Caller{PlayerID: second.CreatorID}, second.ID, free.ID)
				So(errors.Is(err, services.ErrPlayerInOtherTeam), ShouldBeTrue)
				So(errors.Is(err, services.ErrInvalidTeam), ShouldBeTrue)
			})

			Convey("And removing them clears the link", func() {
				team, err := e.teams.RemovePlayer(e.ctx, owner, first.ID, free.ID)
				So(err, ShouldBeNil)
				So(team.Players, ShouldBeEmpty)

				player, _ := e.players.GetPlayerByID(e.ctx, free.ID)
				So(player.TeamID, ShouldBeNil)
			})
		})

		Convey("When someone other than the owner manages the roster", func() {
			_, addErr := e.teams.AddPlayer(e.ctx, models.Caller{PlayerID: second.CreatorID}, first.ID, free.ID)
			_, removeErr := e.teams.RemovePlayer(e.ctx, admin, first.ID, free.ID)

			Convey("Then both are refused", func() {
				So(errors.Is(addErr, services.ErrUnauthorized), ShouldBeTrue)
				So(errors.Is(removeErr, services.ErrUnauthorized), ShouldBeTrue)
			})
		})

		Convey("When the player is unknown or not on the roster", func() {
			_, missing := e.teams.AddPlayer(e.ctx, owner, first.ID, 31337)
			_, notMember := e.teams.RemovePlayer(e.ctx, owner, first.ID, free.ID)

			Convey("Then the matching errors are returned", func() {
				So(errors.Is(missing, services.ErrPlayerNotFound), ShouldBeTrue)
				So(errors.Is(notMember, services.ErrPlayerNotInTeam), ShouldBeTrue)
			})
		})
	})
}

func TestGetAllTeams(t *testing.T) {
	Convey("Given five teams", t, func() {
		e := newEnv(t)
		e.seedTeams(t, 5)

		Convey("Then pages of two report totals and page count", func() {
			page, err := e.teams.GetAllTeams(e.ctx, 3, 2)
			So(err, ShouldBeNil)
			So(page.Total, ShouldEqual, 5)
			So(page.TotalPages, ShouldEqual, 3)
			So(page.Data, ShouldHaveLength, 1)
		})
	})
}
