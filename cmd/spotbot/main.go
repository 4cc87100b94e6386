// cmd/spotbot/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quadbotics/spotbot/internal/config"
	"github.com/quadbotics/spotbot/internal/maestro"
	"github.com/quadbotics/spotbot/internal/relay"
	"github.com/quadbotics/spotbot/internal/servos"
	"github.com/quadbotics/spotbot/internal/status"
	"github.com/quadbotics/spotbot/internal/tui"
)

func main() {
	configPath := flag.String("config", "spotbot.yml", "path to the main configuration file")
	monitor := flag.Bool("monitor", false, "log controller status instead of starting the control screen")
	interval := flag.Duration("interval", 500*time.Millisecond, "status poll interval")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	servoMap, err := config.LoadServoMap(cfg.ServoConfig)
	if err != nil {
		log.Fatalf("servo map load failed: %v", err)
	}
	if err := config.ValidateServoMap(servoMap); err != nil {
		log.Fatalf("servo map validation failed: %v", err)
	}

	// The pose file is optional; a rig with no stored poses is fine.
	var poses config.PoseMap
	if _, statErr := os.Stat(cfg.PoseConfig); statErr == nil {
		poses, err = config.LoadPoseMap(cfg.PoseConfig)
		if err != nil {
			log.Fatalf("pose map load failed: %v", err)
		}
		if err := config.ValidatePoseMap(poses, servoMap); err != nil {
			log.Fatalf("pose map validation failed: %v", err)
		}
	}

	// --------------------
	// Controller + relay
	// --------------------

	settings := maestro.Settings{
		Device:   cfg.Serial.TTY,
		Baud:     cfg.Serial.Baudrate,
		Parity:   cfg.Serial.Parity,
		StopBits: cfg.Serial.StopBits,
		DataBits: cfg.Serial.ByteSize,
	}
	if cfg.Serial.Timeout != nil {
		settings.ReadTimeout = time.Duration(*cfg.Serial.Timeout * float64(time.Second))
	}

	transport, err := maestro.OpenSerial(settings)
	if err != nil {
		log.Fatalf("serial open failed: %v", err)
	}

	ctl, err := maestro.New(maestro.Config{
		Micro: cfg.ServoBoard == "micro-maestro",
	}, transport)
	if err != nil {
		log.Fatalf("controller build failed: %v", err)
	}
	// Close is idempotent; the safe-stop pass runs exactly once no
	// matter which exit path gets here first.
	defer ctl.Close()

	var rly *relay.Relay
	if cfg.Relay != nil {
		rly, err = relay.Open(cfg.Relay.GPIO, cfg.Relay.ActiveHigh)
		if err != nil {
			log.Fatalf("relay open failed: %v", err)
		}
		defer rly.Close()
	}

	rig, err := servos.NewRig(servoMap, ctl)
	if err != nil {
		log.Fatalf("rig build failed: %v", err)
	}

	channels := make([]status.Channel, 0, len(rig.Servos()))
	for _, s := range rig.Servos() {
		channels = append(channels, status.Channel{Key: s.Key, Channel: s.Channel})
	}
	poller, err := status.New(status.Config{Interval: *interval, Channels: channels}, ctl)
	if err != nil {
		log.Fatalf("status poller build failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *monitor {
		runMonitor(ctx, poller)
		return
	}

	model := tui.NewModel(rig, rly, poller, poses, servoMap, cfg.ServoConfig, *interval)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("tui failed: %v", err)
	}
}

// runMonitor logs one line per poll pass until interrupted. The
// poller is the controller's only caller in this mode.
func runMonitor(ctx context.Context, poller *status.Poller) {
	out := make(chan status.Snapshot)
	go poller.Run(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-out:
			if snap.Err != nil {
				log.Printf("poll failed: %v", snap.Err)
				continue
			}
			log.Printf("errors=%s script_running=%v", snap.Errors, snap.ScriptRunning)
			for _, r := range snap.Readings {
				if r.Known {
					log.Printf("  %s ch%d position=%.1fus target=%.1fus", r.Key, r.Channel, r.PositionUs, r.TargetUs)
				} else {
					log.Printf("  %s ch%d position=%.1fus target=never commanded", r.Key, r.Channel, r.PositionUs)
				}
			}
		}
	}
}
