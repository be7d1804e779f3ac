package memory

import (
	"time"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/player"
	"github.com/openera/rankings/internal/domain/scale"
	"github.com/openera/rankings/internal/domain/tournament"
)

const (
	PlayerIDFederer  uint64 = 101
	PlayerIDNadal    uint64 = 102
	PlayerIDDjokovic uint64 = 103
	PlayerIDWawrinka uint64 = 104

	TournamentIDWimbledon uint32 = 1
	TournamentIDHalle     uint32 = 2
	TournamentIDGstaad    uint32 = 3
)

func seedDate(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func SeedPlayers() []player.Player {
	unknown, _ := player.New(player.UnknownID, "", "Unknown", player.UnknownNationality, player.HandUnknown, 0, nil, seedDate(1900, 1, 1), seedDate(2100, 1, 1))
	federer, _ := player.New(PlayerIDFederer, "Roger", "Federer", "SUI", player.HandRight, 185, nil, seedDate(1998, 7, 6), seedDate(2016, 11, 7))
	nadal, _ := player.New(PlayerIDNadal, "Rafael", "Nadal", "ESP", player.HandLeft, 185, nil, seedDate(2001, 4, 30), seedDate(2016, 10, 31))
	djokovic, _ := player.New(PlayerIDDjokovic, "Novak", "Djokovic", "SRB", player.HandRight, 188, nil, seedDate(2004, 2, 2), seedDate(2016, 12, 5))
	wawrinka, _ := player.New(PlayerIDWawrinka, "Stan", "Wawrinka", "SUI", player.HandRight, 183, nil, seedDate(2002, 7, 1), seedDate(2016, 11, 21))

	return []player.Player{unknown, federer, nadal, djokovic, wawrinka}
}

func SeedTournaments() []tournament.Tournament {
	wimbledon, _ := tournament.New(TournamentIDWimbledon, "Wimbledon", "London", tournament.LevelGrandSlam, tournament.SurfaceGrass, false, 0, 0, 0)
	halle, _ := tournament.New(TournamentIDHalle, "Halle", "Halle", tournament.LevelAtp500, tournament.SurfaceGrass, false, 0, 0, 0)
	gstaad, _ := tournament.New(TournamentIDGstaad, "Gstaad", "Gstaad", tournament.LevelAtp250, tournament.SurfaceClay, false, 0, 0, 0)

	return []tournament.Tournament{wimbledon, halle, gstaad}
}

func SeedEditions() []edition.Edition {
	tournaments := SeedTournaments()
	byID := make(map[uint32]tournament.Tournament, len(tournaments))
	for _, t := range tournaments {
		byID[t.ID] = t
	}

	wimbledon2015, _ := edition.New(500, byID[TournamentIDWimbledon], 2015, 128, seedDate(2015, 6, 29), seedDate(2015, 7, 12), true, edition.Snapshot{})
	halle2015, _ := edition.New(501, byID[TournamentIDHalle], 2015, 32, seedDate(2015, 6, 15), seedDate(2015, 6, 21), false, edition.Snapshot{})
	gstaad2015, _ := edition.New(502, byID[TournamentIDGstaad], 2015, 28, seedDate(2015, 7, 27), seedDate(2015, 8, 2), false, edition.Snapshot{})

	return []edition.Edition{wimbledon2015, halle2015, gstaad2015}
}

// SeedScale is the 2015 ATP attribution. Grand slam rounds cumulate;
// the atp_250 rows carry the whole result on the best match instead.
func SeedScale() *scale.Table {
	return scale.NewTable([]scale.Row{
		{Level: tournament.LevelGrandSlam, Round: match.RoundR128, WinnerPoints: 35, LoserPoints: 10, LoserExemptPoints: 10, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundR64, WinnerPoints: 45, LoserPoints: 0, LoserExemptPoints: 35, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundR32, WinnerPoints: 90, LoserPoints: 0, LoserExemptPoints: 45, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundR16, WinnerPoints: 190, LoserPoints: 0, LoserExemptPoints: 90, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundQuarter, WinnerPoints: 360, LoserPoints: 0, LoserExemptPoints: 180, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundSemifinal, WinnerPoints: 480, LoserPoints: 0, LoserExemptPoints: 360, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundFinal, WinnerPoints: 800, LoserPoints: 0, LoserExemptPoints: 600, Cumulative: true},

		{Level: tournament.LevelAtp500, Round: match.RoundR32, WinnerPoints: 45, LoserPoints: 0, LoserExemptPoints: 0},
		{Level: tournament.LevelAtp500, Round: match.RoundR16, WinnerPoints: 90, LoserPoints: 45, LoserExemptPoints: 20},
		{Level: tournament.LevelAtp500, Round: match.RoundQuarter, WinnerPoints: 180, LoserPoints: 90, LoserExemptPoints: 45},
		{Level: tournament.LevelAtp500, Round: match.RoundSemifinal, WinnerPoints: 300, LoserPoints: 180, LoserExemptPoints: 90},
		{Level: tournament.LevelAtp500, Round: match.RoundFinal, WinnerPoints: 500, LoserPoints: 300, LoserExemptPoints: 180},

		{Level: tournament.LevelAtp250, Round: match.RoundR32, WinnerPoints: 20, LoserPoints: 0, LoserExemptPoints: 0},
		{Level: tournament.LevelAtp250, Round: match.RoundR16, WinnerPoints: 45, LoserPoints: 20, LoserExemptPoints: 10},
		{Level: tournament.LevelAtp250, Round: match.RoundQuarter, WinnerPoints: 90, LoserPoints: 45, LoserExemptPoints: 20},
		{Level: tournament.LevelAtp250, Round: match.RoundSemifinal, WinnerPoints: 150, LoserPoints: 90, LoserExemptPoints: 45},
		{Level: tournament.LevelAtp250, Round: match.RoundFinal, WinnerPoints: 250, LoserPoints: 150, LoserExemptPoints: 90},
	})
}
