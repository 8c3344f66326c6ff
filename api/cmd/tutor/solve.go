package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech/audio"
	"math-teacher/api/internal/whiteboard"
)

var (
	imagePath string
	asJSON    bool
	speak     bool
	withBoard bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [problem]",
	Short: "Solve one problem and print the explanation",
	Example: `  tutor solve "2x + 3 = 7"
  tutor solve --image ~/Pictures/homework.jpg --lang en
  tutor solve "find the area" --image triangle.png --json
  tutor solve "3x = 12" --board`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lang, err := loadConfig()
		if err != nil {
			return err
		}

		capture := input.NewCapture(lang)
		capture.SetText(strings.Join(args, " "))
		if imagePath != "" {
			if err := capture.AttachImageFile(imagePath); err != nil {
				return err
			}
		}
		p, err := capture.Problem()
		if err != nil {
			return fmt.Errorf("%s: %w", lesson.Text(lang).ErrorInput, err)
		}

		engine, closeCache := newEngine(cmd.Context(), cfg)
		defer closeCache()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SolveTimeout)
		defer cancel()
		sol, err := engine.Solve(ctx, solver.Request{Text: p.Text, Image: p.Image, Lang: lang})
		if err != nil {
			return fmt.Errorf("%s: %w", lesson.FailureMessage(lang, err), err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(sol); err != nil {
				return err
			}
		} else {
			printSolution(out, sol, lang)
		}

		if withBoard && !asJSON {
			if err := playBoard(cmd.Context(), out, sol, lang, cfg.BoardInterval); err != nil {
				return err
			}
		}

		if speak {
			newNarrator(cfg, audio.NewSpeaker()).Narrate(cmd.Context(), sol.AudioScript, lang)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVarP(&imagePath, "image", "i", "", "image of the problem")
	solveCmd.Flags().BoolVar(&asJSON, "json", false, "print the raw solution JSON")
	solveCmd.Flags().BoolVar(&speak, "speak", false, "read the explanation aloud")
	solveCmd.Flags().BoolVar(&withBoard, "board", false, "write the whiteboard lines one by one")
}

func printSolution(w io.Writer, sol types.Solution, lang types.Language) {
	t := lesson.Text(lang)
	headline, badge := types.SplitFinalResult(sol.FinalResult)

	fmt.Fprintln(w, t.UnderstandingHeader)
	fmt.Fprintln(w, sol.Understanding)
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.StepsHeader)
	for i, st := range sol.TextSteps {
		fmt.Fprintf(w, "%d. %s\n", i+1, st)
	}
	if len(sol.WhiteboardSteps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.WhiteboardHeader)
		for _, st := range sol.WhiteboardSteps {
			printBoardLine(w, st)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.FinalHeader)
	fmt.Fprintln(w, headline)
	if badge != "" {
		fmt.Fprintln(w, badge)
	}
}

func printBoardLine(w io.Writer, st types.WhiteboardStep) {
	fmt.Fprintf(w, "  [%s] %s\n", st.Color, st.Content)
}

// playBoard writes the whiteboard again, one line per interval.
func playBoard(ctx context.Context, w io.Writer, sol types.Solution, lang types.Language, interval time.Duration) error {
	t := lesson.Text(lang)
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.WhiteboardWriting)
	err := whiteboard.New(sol.WhiteboardSteps).Play(ctx, interval, func(r whiteboard.Reveal) {
		printBoardLine(w, r.Step)
	})
	if errors.Is(err, whiteboard.ErrEmptyBoard) {
		fmt.Fprintln(w, t.BoardUnavailable)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, t.WhiteboardExplaining)
	return nil
}
