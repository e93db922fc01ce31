package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gesture-next/gesturecli/gestures"
	"github.com/gesture-next/gesturecli/server"
	"github.com/gesture-next/gesturecli/types"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [recording]",
	Short: "Replay a recorded pointer stream through the engine",
	Long: `Feeds a JSON Lines recording of raw pointer events through the gesture
engine on a virtual clock, so hold/tap/idle windows fire exactly as they
would have live, and prints each recognized gesture as one JSON line.
Pass '-' to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compose, _ := cmd.Flags().GetBool("compose")

		var in io.Reader
		if args[0] == "-" {
			in = os.Stdin
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open recording: %w", err)
			}
			defer f.Close()
			in = f
		}

		cfg, err := engineConfig(configPath)
		if err != nil {
			return err
		}

		return replayStream(in, cfg, compose, os.Stdout)
	},
}

// replayStream drives the engine with a manual clock anchored at the epoch,
// so emitted timestamps come out as milliseconds relative to the recording
// start.
func replayStream(in io.Reader, cfg gestures.Config, compose bool, out io.Writer) error {
	clock := gestures.NewManualClock(time.UnixMilli(0))
	engine := gestures.NewDispatcher(cfg, clock, nil)

	enc := json.NewEncoder(out)
	print := func(name string, e, partner *gestures.GestureEvent) {
		_ = enc.Encode(server.GestureMessage(name, e, partner))
	}

	engine.On(replayedGestures, 0, func(e *gestures.GestureEvent) {
		print(string(e.Type), e, nil)
	})

	if compose {
		_, err := engine.Register(gestures.Handler{
			Priority: 10,
			PanStart: func(e *gestures.GestureEvent) {
				e.Capture()
				print("panStart", e, nil)
			},
			PanMove: func(e *gestures.GestureEvent) {
				e.Capture()
				print("panMove", e, nil)
			},
			PanEnd: func(e *gestures.GestureEvent) {
				e.Capture()
				print("panEnd", e, nil)
			},
			PinchStart: func(first, second *gestures.GestureEvent) {
				first.Capture()
				print("pinchStart", first, second)
			},
			PinchMove: func(first, second *gestures.GestureEvent) { print("pinchMove", first, second) },
			PinchEnd:  func(e *gestures.GestureEvent) { print("pinchEnd", e, nil) },
		})
		if err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	prevMs := 0.0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw types.RawPointerEvent
		if err := json.Unmarshal(line, &raw); err != nil {
			return fmt.Errorf("line %d: invalid event: %w", lineNo, err)
		}

		e, err := server.ToPointerEvent(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		// advance virtual time to the event, firing due hold/tap/idle timers
		if dt := raw.TimestampMs - prevMs; dt > 0 {
			clock.Advance(time.Duration(dt * float64(time.Millisecond)))
			prevMs = raw.TimestampMs
		}

		e.Time = clock.Now()
		engine.HandleEvent(e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	// flush trailing tap/hold windows
	effective := engine.Config()
	clock.Advance(effective.HoldDelay + effective.TapDelay)

	return nil
}

// replayedGestures excludes the idle pair: a finished recording would
// otherwise always end on a spurious wentIdle.
var replayedGestures = []gestures.GestureType{
	gestures.GestureHover,
	gestures.GesturePointerDown,
	gestures.GestureDragStart,
	gestures.GestureDragMove,
	gestures.GestureDragEnd,
	gestures.GestureSingleTap,
	gestures.GestureDoubleTap,
	gestures.GestureHold,
	gestures.GestureWheel,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Bool("compose", false, "Also compose pan/pinch gestures")
	replayCmd.Flags().StringVar(&configPath, "config", "", "Path to an ini file with gesture thresholds")
}
