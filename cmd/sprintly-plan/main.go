// Command sprintly-plan splits a JSON array of scored items into sprints
//
//	sprintly-plan -velocity 8 -in backlog.json
//	cat backlog.json | sprintly-plan -velocity 8 -schedule
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"sprintly/internal/core/scoremap"
	"sprintly/internal/core/sprint"
	"sprintly/internal/platform/logger"
)

func main() {
	logger.Init(logger.FromEnv())
	if err := run(os.Args[1:], os.Stdin, os.Stdout, time.Now()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Get().Fatal().Err(err).Msg("sprintly-plan failed")
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, now time.Time) error {
	fs := flag.NewFlagSet("sprintly-plan", flag.ContinueOnError)
	var (
		fVelocity = fs.String("velocity", "", "points per sprint (required)")
		fScores   = fs.String("scores", "", `score map, e.g. "~:0,S:1,M:3,L:5,XL:8" (default as shown)`)
		fUnscored = fs.String("unscored", "reject", "unmapped score labels: reject | zero")
		fIn       = fs.String("in", "-", "input file, - for stdin")
		fSchedule = fs.Bool("schedule", false, "attach weekly start dates to each sprint")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *fVelocity == "" {
		return errors.New("-velocity is required")
	}
	velocity, err := strconv.ParseFloat(*fVelocity, 64)
	if err != nil {
		return fmt.Errorf("-velocity: %w", err)
	}

	scores := scoremap.Default()
	if *fScores != "" {
		if scores, err = scoremap.Parse(*fScores); err != nil {
			return fmt.Errorf("-scores: %w", err)
		}
	}
	policy, err := sprint.ParsePolicy(*fUnscored)
	if err != nil {
		return fmt.Errorf("-unscored: %w", err)
	}

	in := stdin
	if *fIn != "-" {
		f, err := os.Open(*fIn)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var items []rawItem
	if err := json.NewDecoder(in).Decode(&items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}

	chunks, err := sprint.Partition(sprint.New(scores, sprint.WithPolicy(policy)), items, velocity)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if *fSchedule {
		return enc.Encode(sprint.Schedule(chunks, now))
	}
	return enc.Encode(chunks)
}

// rawItem keeps the caller's object untouched and only reads its score
type rawItem struct {
	raw   json.RawMessage
	score string
}

func (i rawItem) ScoreLabel() string { return i.score }

func (i rawItem) MarshalJSON() ([]byte, error) { return i.raw, nil }

func (i *rawItem) UnmarshalJSON(b []byte) error {
	var probe struct {
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	i.raw = append(json.RawMessage(nil), b...)
	i.score = ""
	switch s := bytes.TrimSpace(probe.Score); {
	case len(s) == 0 || bytes.Equal(s, []byte("null")):
	case s[0] == '"':
		if err := json.Unmarshal(s, &i.score); err != nil {
			return err
		}
	default:
		// numeric scores keep their literal text so "3" in the map matches 3 in the input
		i.score = string(s)
	}
	return nil
}
