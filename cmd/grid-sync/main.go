// Command grid-sync runs the two-player synchronization exhibit: it samples
// the arcade buttons, advances the oscillator engine at the frame rate,
// publishes exhibit events to MQTT, and serves the status and display pages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/grid-sync/internal/attract"
	"github.com/sweeney/grid-sync/internal/config"
	"github.com/sweeney/grid-sync/internal/engine"
	"github.com/sweeney/grid-sync/internal/gpio"
	"github.com/sweeney/grid-sync/internal/mqtt"
	"github.com/sweeney/grid-sync/internal/status"
	"github.com/sweeney/grid-sync/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	difficulty := flag.String("difficulty", "", "Tolerance preset: easy, medium, hard")
	fps := flag.Int("fps", 0, "Engine frame rate")
	broker := flag.String("broker", "", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", -1, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty keeps config value)")
	pinP1Up := flag.Int("pin-p1-up", -1, "BCM pin for player 1 UP button")
	pinP1Down := flag.Int("pin-p1-down", -1, "BCM pin for player 1 DOWN button")
	pinP2Up := flag.Int("pin-p2-up", -1, "BCM pin for player 2 UP button")
	pinP2Down := flag.Int("pin-p2-down", -1, "BCM pin for player 2 DOWN button")
	printState := flag.Bool("print-state", false, "Print current button levels and exit")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Flags set on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "difficulty":
			cfg.Difficulty = *difficulty
		case "fps":
			cfg.FPS = *fps
		case "broker":
			cfg.Broker = *broker
		case "heartbeat":
			cfg.HeartbeatSeconds = heartbeat.Seconds()
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "pin-p1-up":
			cfg.Pins.P1Up = *pinP1Up
		case "pin-p1-down":
			cfg.Pins.P1Down = *pinP1Down
		case "pin-p2-up":
			cfg.Pins.P2Up = *pinP2Up
		case "pin-p2-down":
			cfg.Pins.P2Down = *pinP2Down
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(cfg *config.Config, printState bool) error {
	pins := gpio.Pins{
		P1Up:   cfg.Pins.P1Up,
		P1Down: cfg.Pins.P1Down,
		P2Up:   cfg.Pins.P2Up,
		P2Down: cfg.Pins.P2Down,
	}
	reader, err := gpio.NewRealReader(pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	if printState {
		b, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("P1: up=%v down=%v  P2: up=%v down=%v\n", b.P1Up, b.P1Down, b.P2Up, b.P2Down)
		return nil
	}

	publisher := mqtt.NewRealPublisher(cfg.Broker)
	defer publisher.Close()

	heartbeat := time.Duration(cfg.HeartbeatSeconds * float64(time.Second))
	tracker := status.NewTracker(time.Now(), status.Config{
		FPS:         cfg.FPS,
		Difficulty:  cfg.Difficulty,
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		HeartbeatMs: heartbeat.Milliseconds(),
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	hub := web.NewHub()
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: fps=%d difficulty=%s broker=%s heartbeat=%v",
		cfg.FPS, cfg.Difficulty, cfg.Broker, heartbeat)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:     reader,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		hub:        hub,
		params:     cfg.EngineParams(),
		attract:    cfg.Attract,
		heartbeat:  heartbeat,
		now:        time.Now,
		tick:       ticker.C,
		sig:        sigCh,
	})
}

// loopDeps bundles everything runLoop needs so tests can inject fakes and
// drive the tick and signal channels directly.
type loopDeps struct {
	reader     gpio.Reader
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	hub        *web.Hub
	params     engine.Params
	attract    config.AttractConfig
	heartbeat  time.Duration
	now        func() time.Time
	tick       <-chan time.Time
	sig        <-chan os.Signal
}

func runLoop(d loopDeps) error {
	startTime := d.now()
	eng := engine.New(d.params, startTime)
	sched := attract.NewScheduler(d.attract.PulseInterval, d.attract.PulseSpeed)
	var detector gpio.EdgeDetector

	lastTick := startTime
	lastHeartbeat := startTime

	for {
		select {
		case s := <-d.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-d.tick:
			t := d.now()
			dt := t.Sub(lastTick)
			lastTick = t

			buttons, err := d.reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			for _, press := range detector.Detect(buttons) {
				log.Printf("press: %s %s", press.Player, press.Signal)
				eng.Submit(press.Player, press.Signal, t)
			}

			for _, event := range eng.Tick(dt, t) {
				log.Printf("event: %s player=%s progress=%.2f", event.Type, event.Player, event.Progress)
				if err := d.publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			p1 := eng.Oscillator(engine.PlayerOne)
			p2 := eng.Oscillator(engine.PlayerTwo)
			sched.Tick(dt.Seconds(), p1.Idle(t), p2.Idle(t))

			if d.tracker != nil {
				d.tracker.Update(
					playerStatus(p1, t),
					playerStatus(p2, t),
					eng.Progress(), eng.Locked(), eng.CountsSnapshot(),
				)
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}

			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				counts := eng.CountsSnapshot()
				log.Printf("heartbeat: uptime=%v p1=%d p2=%d locks=%d resets=%d",
					t.Sub(startTime).Truncate(time.Second),
					counts.SessionsP1, counts.SessionsP2, counts.Locks, counts.Resets)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if d.hub != nil {
				d.hub.Broadcast(buildFrame(eng, sched, t))
			}
		}
	}
}

// playerStatus condenses one oscillator into its status-page summary.
func playerStatus(o *engine.Oscillator, now time.Time) status.PlayerStatus {
	state := status.StateIdle
	if o.IdleReturning() {
		state = status.StateReturning
	} else if o.EverHadInput() && !o.Idle(now) {
		state = status.StateActive
	}
	return status.PlayerStatus{
		State:     state,
		Frequency: o.Frequency(),
		AngleDeg:  o.DisplayAngle() * 180 / math.Pi,
		Position:  o.Position(),
	}
}

// buildFrame assembles one display frame for the /live stream.
func buildFrame(eng *engine.Engine, sched *attract.Scheduler, now time.Time) web.Frame {
	return web.Frame{
		P1: playerFrame(eng.Oscillator(engine.PlayerOne), sched.Rings(0), now),
		P2: playerFrame(eng.Oscillator(engine.PlayerTwo), sched.Rings(1), now),
		Sync: web.SyncFrame{
			Progress: eng.Progress(),
			Locked:   eng.Locked(),
		},
	}
}

func playerFrame(o *engine.Oscillator, rings []attract.Ring, now time.Time) web.PlayerFrame {
	f := web.PlayerFrame{
		Position:  o.Position(),
		Angle:     o.DisplayAngle(),
		Frequency: o.Frequency(),
		Idle:      o.Idle(now),
		Returning: o.IdleReturning(),
	}
	for _, r := range rings {
		f.Rings = append(f.Rings, web.RingFrame{Frac: r.Frac, Fade: r.Fade()})
	}
	return f
}
