// Package seed generates deterministic synthetic defensive-back prospects
// for demos and tests.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
)

// namespace scopes generated player ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("secondary/seed"))

// Profile ranges, expressed as a 0..1 talent level.
const (
	caseAverage = iota
	caseHigh
	caseLow
	caseElite
	caseRaw
	caseProfiles
)

// Shares of generated players with a missing input.
const (
	missingRASShare     = 0.10
	noRookieShare       = 0.15
	missingTFLShare     = 0.05
	undraftedShare      = 0.20
	maxRound            = 7
	picksPerRound       = 32
	collegeSeasonsMax   = 5
	rookieSnapsMax      = 1100
	coverageShareOfSnap = 0.6
)

var (
	teams    = []string{"ARI", "BAL", "BUF", "CHI", "DAL", "DEN", "GB", "KC", "LV", "MIA", "NE", "NYG", "PHI", "SEA", "SF", "TB"}
	colleges = []string{"Alabama", "Georgia", "Ohio State", "LSU", "Michigan", "Clemson", "Oregon", "Florida", "Iowa", "TCU"}
)

// Generate returns cfg.Players prospects. Output is a pure function of cfg.
func Generate(ctx context.Context, cfg Config) ([]model.PlayerRecord, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	out := make([]model.PlayerRecord, cfg.Players)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("seed cancelled at player %d: %w", i, err)
		}
		out[i] = generatePlayer(rng, cfg, i)
	}
	return out, nil
}

// PlayerID returns the id assigned to the i-th player of a seed.
func PlayerID(seed uint64, i int) string {
	return uuid.NewSHA1(namespace, []byte(strconv.FormatUint(seed, 10)+":"+strconv.Itoa(i))).String()
}

func generatePlayer(rng *rand.Rand, cfg Config, i int) model.PlayerRecord {
	level := talent(rng)
	jitter := func(scale float64) float64 {
		return scale * (0.75*level + 0.25*rng.Float64())
	}

	p := model.PlayerRecord{
		ID:          PlayerID(cfg.Seed, i),
		DisplayName: "Prospect " + strconv.Itoa(i+1),
		Position:    cfg.Positions[rng.IntN(len(cfg.Positions))],
		TeamName:    teams[rng.IntN(len(teams))],
		CollegeName: colleges[rng.IntN(len(colleges))],
		Draft:       draft(rng, cfg, level),
	}
	p.Draft.Club = p.TeamName

	if rng.Float64() >= missingRASShare {
		p.RAS = types.Some(round2(2 + jitter(8)))
	}

	seasons := 1 + rng.IntN(collegeSeasonsMax)
	p.College = model.College{
		Seasons:        types.Some(float64(seasons)),
		Interceptions:  types.Some(float64(int(jitter(4) * float64(seasons)))),
		PassBreakups:   types.Some(float64(int(jitter(12) * float64(seasons)))),
		Tackles:        types.Some(float64(int((20 + jitter(50)) * float64(seasons)))),
		TacklesForLoss: types.Some(float64(int(jitter(4) * float64(seasons)))),
	}
	if rng.Float64() < missingTFLShare {
		p.College.TacklesForLoss = types.None()
	}

	if rng.Float64() >= noRookieShare {
		snaps := float64(int(50 + jitter(rookieSnapsMax)))
		cov := float64(int(snaps * coverageShareOfSnap))
		p.Rookie = model.Rookie{
			TotalSnaps:           types.Some(snaps),
			CoverageSnaps:        types.Some(cov),
			Interceptions:        types.Some(float64(int(jitter(4)))),
			PassBreakups:         types.Some(float64(int(jitter(14)))),
			Tackles:              types.Some(float64(int(snaps / 12 * (0.5 + rng.Float64())))),
			CoverageYardsAllowed: types.Some(float64(int(cov * (1.6 - level + 0.4*rng.Float64())))),
		}
	}
	return p
}

// talent draws a 0..1 level from one of several performance profiles.
func talent(rng *rand.Rand) float64 {
	switch rng.IntN(caseProfiles) {
	case caseHigh:
		return 0.65 + 0.2*rng.Float64()
	case caseLow:
		return 0.05 + 0.3*rng.Float64()
	case caseElite:
		return 0.85 + 0.15*rng.Float64()
	case caseRaw:
		return rng.Float64()
	default:
		return 0.35 + 0.3*rng.Float64()
	}
}

func draft(rng *rand.Rand, cfg Config, level float64) model.Draft {
	d := model.Draft{Season: cfg.Season + rng.IntN(cfg.Seasons)}
	if rng.Float64() < undraftedShare*(1-level) {
		return d
	}
	overall := 1 + int((1-level)*float64(maxRound*picksPerRound-1)*rng.Float64())
	d.Overall = overall
	d.Round = 1 + (overall-1)/picksPerRound
	return d
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}
