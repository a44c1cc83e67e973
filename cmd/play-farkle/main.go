package main

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timpalpant/farkle-engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Params struct {
	StoreKind string
	Dir       string
	CPUDelay  time.Duration
	HTTPAddr  string
	NewGame   bool
	Seed      uint64
}

var printer = message.NewPrinter(language.English)

func main() {
	cfg, err := farkle.LoadConfigFromEnv()
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	var params Params
	flag.StringVar(&params.StoreKind, "store", "pebble", "Where to keep games: memory, file or pebble")
	flag.StringVar(&params.Dir, "dir", defaultDir(), "Directory for the file and pebble stores")
	flag.DurationVar(&params.CPUDelay, "cpu_delay", 400*time.Millisecond, "Pause between CPU steps")
	flag.StringVar(&params.HTTPAddr, "http", "", "Address to serve /metrics and pprof on")
	flag.BoolVar(&params.NewGame, "new", false, "Discard any saved game and settings")
	flag.Uint64Var(&params.Seed, "seed", 0, "Random seed (0 for a random one)")
	flag.IntVar(&cfg.MinEntry, "min_entry", cfg.MinEntry, "Points needed to get on the board")
	flag.IntVar(&cfg.WinScore, "win_score", cfg.WinScore, "Score needed to win")
	flag.BoolVar(&cfg.HotDice, "hot_dice", cfg.HotDice, "Continue with six dice after scoring all six")
	flag.TextVar(&cfg.Style, "cpu_style", cfg.Style, "CPU style: conservative, standard or aggressive")
	flag.Parse()
	cfg = cfg.Normalize()

	store, err := openStore(params.StoreKind, params.Dir)
	if err != nil {
		glog.Errorf("Unable to open store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if params.NewGame {
		if err := store.Reset(); err != nil {
			glog.Errorf("Unable to reset store: %v", err)
			os.Exit(1)
		}
	} else if stored, err := store.LoadSettings(); err == nil {
		cfg = mergeSettings(stored, cfg)
	} else if !errors.Is(err, farkle.ErrNotFound) {
		glog.Warningf("Discarding unreadable settings: %v", err)
	}
	if err := store.SaveSettings(cfg); err != nil {
		glog.Errorf("Unable to save settings: %v", err)
		os.Exit(1)
	}

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

	seed := params.Seed
	if seed == 0 {
		if seed, err = newSeed(); err != nil {
			glog.Errorf("%v", err)
			os.Exit(1)
		}
	}

	entries, err := store.LoadLog()
	if err != nil && !errors.Is(err, farkle.ErrNotFound) {
		glog.Warningf("Discarding unreadable log: %v", err)
	}
	history := farkle.NewHistorySink(farkle.DefaultHistoryLimit, entries)
	sink := farkle.MultiSink{
		farkle.EventSinkFunc(func(e farkle.Event) { fmt.Printf("...%s\n", e) }),
		history,
		metrics,
		farkle.LogSink{},
	}

	g := loadGame(store, cfg, farkle.NewRandomSource(seed), sink)
	playGame(g, store, history, params.CPUDelay)
}

// mergeSettings keeps saved settings except where a flag was given
// explicitly.
func mergeSettings(stored, flagged farkle.Config) farkle.Config {
	merged := stored
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min_entry":
			merged.MinEntry = flagged.MinEntry
		case "win_score":
			merged.WinScore = flagged.WinScore
		case "hot_dice":
			merged.HotDice = flagged.HotDice
		case "cpu_style":
			merged.Style = flagged.Style
		}
	})
	return merged.Normalize()
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "farkle-data"
	}
	return filepath.Join(dir, "farkle")
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func openStore(kind, dir string) (farkle.Store, error) {
	switch kind {
	case "memory":
		return farkle.NewMemoryStore(), nil
	case "file":
		return farkle.NewFileStore(dir)
	case "pebble":
		return farkle.NewPebbleStore(filepath.Join(dir, "pebble"), nil)
	}
	return nil, errors.Newf("unknown store %q", kind)
}

func loadGame(store farkle.Store, cfg farkle.Config, src farkle.Source, sink farkle.EventSink) *farkle.Game {
	snap, err := store.LoadGame()
	if errors.Is(err, farkle.ErrNotFound) {
		return farkle.NewGame(cfg, src, sink)
	} else if err != nil {
		glog.Warningf("Unable to load saved game, starting a new one: %v", err)
		return farkle.NewGame(cfg, src, sink)
	}

	g, err := farkle.Restore(cfg, snap, src, sink)
	if err != nil {
		glog.Warningf("Saved game is corrupt, starting a new one: %v", err)
		return farkle.NewGame(cfg, src, sink)
	}
	fmt.Println("Resuming saved game.")
	return g
}

func save(g *farkle.Game, store farkle.Store, history *farkle.HistorySink) {
	if err := store.SaveGame(g.Snapshot()); err != nil {
		glog.Errorf("Unable to save game: %v", err)
	}
	if err := store.SaveLog(history.Entries()); err != nil {
		glog.Errorf("Unable to save log: %v", err)
	}
}

func playGame(g *farkle.Game, store farkle.Store, history *farkle.HistorySink, cpuDelay time.Duration) {
	cpu := farkle.NewOpponent(g.Config())
	if cpuDelay > 0 {
		cpu.Pause = farkle.SleepPause(cpuDelay)
	}
	in := bufio.NewReader(os.Stdin)

	printScores(g)
	for g.Phase() != farkle.PhaseFinished {
		if g.Roller() == farkle.CPU {
			if err := cpu.PlayTurn(g); err != nil {
				glog.Errorf("CPU turn failed: %v", err)
				return
			}
			save(g, store, history)
			printScores(g)
			continue
		}

		var err error
		switch g.Phase() {
		case farkle.PhaseReadyToRoll:
			err = promptTurn(in, g)
		case farkle.PhaseDiceShown:
			err = promptKeep(in, g)
		case farkle.PhaseAwaitingAck:
			prompt(in, "...press enter to pass the dice")
			err = g.Acknowledge(farkle.Human)
			printScores(g)
		}
		if errors.Is(err, errQuit) {
			save(g, store, history)
			return
		} else if err != nil {
			fmt.Printf("......%v\n", err)
		}
		save(g, store, history)
	}

	printScores(g)
	if winner, ok := g.Winner(); ok {
		printer.Printf("Game over, %s won.\n", winner)
	}
}

var errQuit = errors.New("quit")

func prompt(in *bufio.Reader, text string) string {
	fmt.Print(text)
	line, err := in.ReadString('\n')
	if err != nil {
		return "q"
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

func promptTurn(in *bufio.Reader, g *farkle.Game) error {
	if g.TurnPoints() == 0 {
		switch prompt(in, "...[R]oll, [U]ndo or [Q]uit? ") {
		case "Q", "QUIT":
			return errQuit
		case "U", "UNDO":
			return g.Undo(farkle.Human)
		}
		_, err := g.Roll(farkle.Human)
		return err
	}

	printer.Printf("...score this round = %d, %d dice to roll\n", g.TurnPoints(), g.State().DiceLeft)
	if !g.Player(farkle.Human).OnBoard && !g.CanBank(farkle.Human) {
		printer.Printf("...banking now scores nothing (%d to get on the board)\n", g.Config().MinEntry)
	}
	for {
		switch prompt(in, "...continue rolling (Y/N), [U]ndo or [Q]uit? ") {
		case "Y", "YES", "1", "R":
			_, err := g.Roll(farkle.Human)
			return err
		case "N", "NO", "0", "B":
			_, err := g.Bank(farkle.Human)
			return err
		case "U", "UNDO":
			return g.Undo(farkle.Human)
		case "Q", "QUIT":
			return errQuit
		}
		fmt.Println("......don't understand")
	}
}

func promptKeep(in *bufio.Reader, g *farkle.Game) error {
	faces := g.State().TrayFaces()
	suggestion := farkle.BestKeep(faces)
	for {
		text := prompt(in, fmt.Sprintf("...enter dice to keep [%s]: ", farkle.FormatFaces(suggestion)))
		if text == "Q" || text == "QUIT" {
			return errQuit
		}

		held := suggestion
		if text != "" {
			var err error
			if held, err = farkle.ParseFaces(text); err != nil {
				fmt.Printf("......unable to parse dice: %v\n", err)
				continue
			}
		}
		if err := g.HoldFaces(farkle.Human, held); err != nil {
			fmt.Printf("......%v\n", err)
			continue
		}
		if _, err := g.Keep(farkle.Human); err != nil {
			fmt.Printf("......can't keep %s: %v\n", farkle.FormatFaces(held), err)
			continue
		}
		return nil
	}
}

func printScores(g *farkle.Game) {
	status := func(p farkle.Player) string {
		ps := g.Player(p)
		if ps.OnBoard {
			return printer.Sprintf("%d", ps.Score)
		}
		return printer.Sprintf("%d (need %d to board)", ps.Score, g.Config().MinEntry)
	}
	printer.Printf("Current scores: you = %s, cpu = %s, playing to %d\n\n",
		status(farkle.Human), status(farkle.CPU), g.Config().WinScore)
}
