package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/timpalpant/farkle-engine"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] DICE...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	faces, err := farkle.ParseFaces(strings.Join(flag.Args(), " "))
	if err != nil {
		glog.Errorf("Unable to parse dice: %v", err)
		os.Exit(1)
	}
	if len(faces) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	tally := farkle.CountDice(faces...)
	fmt.Printf("Dice: %s\n", farkle.FormatFaces(faces))
	tricks, ok := farkle.BestPartition(tally)
	if !ok {
		fmt.Println("Score: 0 (not every die scores)")
		fmt.Println("As a roll: farkle!")
		return
	}
	fmt.Printf("Score: %d\n", farkle.Score(tally))
	for _, trick := range tricks {
		fmt.Printf("  %s\n", trick)
	}
	keep := farkle.BestKeep(faces)
	fmt.Printf("As a roll: keep %s for %d\n", farkle.FormatFaces(keep), farkle.ScoreFaces(keep))
}
