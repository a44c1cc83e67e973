package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timpalpant/farkle-engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Params struct {
	NumGames   int
	NumWorkers int
	Seed       uint64
	HumanStyle farkle.Style
	HTTPAddr   string
}

type result struct {
	winner  farkle.Player
	turns   int
	rolls   [2]int
	farkles [2]int
	banked  [2]int
	banks   [2]int
}

func main() {
	cfg, err := farkle.LoadConfigFromEnv()
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	params := Params{HumanStyle: farkle.Standard}
	flag.IntVar(&params.NumGames, "num_games", 1000, "Number of games to simulate")
	flag.IntVar(&params.NumWorkers, "workers", 4, "Number of games to play concurrently")
	flag.Uint64Var(&params.Seed, "seed", 1, "Random seed")
	flag.TextVar(&params.HumanStyle, "human_style", params.HumanStyle, "Style of the bot in the human seat")
	flag.TextVar(&cfg.Style, "cpu_style", cfg.Style, "Style of the CPU opponent")
	flag.IntVar(&cfg.MinEntry, "min_entry", cfg.MinEntry, "Points needed to get on the board")
	flag.IntVar(&cfg.WinScore, "win_score", cfg.WinScore, "Score needed to win")
	flag.BoolVar(&cfg.HotDice, "hot_dice", cfg.HotDice, "Continue with six dice after scoring all six")
	flag.StringVar(&params.HTTPAddr, "http", "", "Address to serve /metrics and pprof on")
	flag.Parse()
	cfg = cfg.Normalize()

	reg := prometheus.NewRegistry()
	metrics, err := farkle.NewMetricsSink(reg)
	if err != nil {
		glog.Errorf("Unable to register metrics: %v", err)
		os.Exit(1)
	}
	if params.HTTPAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(params.HTTPAddr, nil); err != nil {
				glog.Errorf("HTTP server on %s: %v", params.HTTPAddr, err)
			}
		}()
	}

	glog.Infof("Simulating %d games: %s (you) vs %s (cpu), config %+v",
		params.NumGames, params.HumanStyle, cfg.Style, cfg)

	games := make(chan int)
	results := make(chan result)
	var wg sync.WaitGroup
	for i := 0; i < params.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range games {
				r, err := playGame(cfg, params, params.Seed+uint64(game), metrics)
				if err != nil {
					glog.Errorf("Game %d aborted: %v", game, err)
					continue
				}
				results <- r
			}
		}()
	}
	go func() {
		for game := 0; game < params.NumGames; game++ {
			games <- game
		}
		close(games)
		wg.Wait()
		close(results)
	}()

	var wins, rolls, farkles, banked, banks [2]int
	var turns, played int
	for r := range results {
		played++
		wins[r.winner]++
		turns += r.turns
		for p := range rolls {
			rolls[p] += r.rolls[p]
			farkles[p] += r.farkles[p]
			banked[p] += r.banked[p]
			banks[p] += r.banks[p]
		}
	}
	report(played, turns, wins, rolls, farkles, banked, banks, params.HumanStyle, cfg.Style)
}

func playGame(cfg farkle.Config, params Params, seed uint64, metrics farkle.EventSink) (result, error) {
	var r result
	stats := farkle.EventSinkFunc(func(e farkle.Event) {
		switch e.Kind {
		case farkle.EventTurnStarted:
			r.turns++
		case farkle.EventRolled:
			r.rolls[e.Player]++
		case farkle.EventFarkle:
			r.farkles[e.Player]++
		case farkle.EventBanked:
			r.banks[e.Player]++
			r.banked[e.Player] += e.Points
		}
	})

	g := farkle.NewGame(cfg, farkle.NewRandomSource(seed), farkle.MultiSink{stats, metrics})
	humanCfg := cfg
	humanCfg.Style = params.HumanStyle
	players := map[farkle.Player]*farkle.Opponent{
		farkle.Human: {Player: farkle.Human, Policy: farkle.NewPolicy(humanCfg)},
		farkle.CPU:   farkle.NewOpponent(cfg),
	}

	for g.Phase() != farkle.PhaseFinished {
		if err := players[g.Roller()].PlayTurn(g); err != nil {
			return r, err
		}
	}
	r.winner, _ = g.Winner()
	glog.V(1).Infof("Seed %d: %s won after %d turns (%v)", seed, r.winner, r.turns, g.State())
	return r, nil
}

func report(played, turns int, wins, rolls, farkles, banked, banks [2]int, humanStyle, cpuStyle farkle.Style) {
	p := message.NewPrinter(language.English)
	p.Printf("Played %d games, %.1f turns per game\n", played, float64(turns)/float64(max(played, 1)))
	styles := [2]farkle.Style{humanStyle, cpuStyle}
	for _, player := range []farkle.Player{farkle.Human, farkle.CPU} {
		p.Printf("%-4s %-13s wins %6d (%5.1f%%)  farkle rate %5.1f%%  avg bank %d\n",
			player, styles[player], wins[player],
			100*float64(wins[player])/float64(max(played, 1)),
			100*float64(farkles[player])/float64(max(rolls[player], 1)),
			banked[player]/max(banks[player], 1))
	}
}
