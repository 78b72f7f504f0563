// @title        Pet Feeder API
// @version      1.0
// @description  Schedules, manual control and audit trail for a networked pet feeder.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "pet_feeder/docs"
	"pet_feeder/internal/config"
	"pet_feeder/internal/device"
	"pet_feeder/internal/handlers"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/mqtt"
	"pet_feeder/internal/repository"
	"pet_feeder/internal/server"
	"pet_feeder/internal/service"
	"pet_feeder/internal/telemetry"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var configDir string

var rootCmd = &cobra.Command{
	Use:   "feeder",
	Short: "Pet feeder coordination service",
	Long: `Evaluates feeding schedules, drives the feeder over MQTT (or an in-process ` +
		`simulator) and serves the HTTP API and state stream.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coordinator and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the SQLite schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}
		db, err := repository.InitDB(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repository.NewRepository(db).Devices.Ensure(cmd.Context(), cfg.Device.ID); err != nil {
			return err
		}
		fmt.Printf("schema ready at %s\n", cfg.DB.Path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "directory holding config.yml")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resources holds what serve has to tear down.
type resources struct {
	db     *sql.DB
	broker *mqtt.Client
	influx *telemetry.Influx

	// loops tracks background goroutines that use the resources above.
	loops sync.WaitGroup
}

// goLoop runs fn on a tracked goroutine.
func (rt *resources) goLoop(fn func()) {
	rt.loops.Add(1)
	go func() {
		defer rt.loops.Done()
		fn()
	}()
}

// waitLoops blocks until every tracked goroutine returned or ctx is done.
func (rt *resources) waitLoops(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		rt.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func serve() error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)

	rt := &resources{}
	defer rt.close(log)

	rt.db, err = repository.InitDB(cfg.DB.Path)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
		return err
	}
	repos := repository.NewRepository(rt.db)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := repos.Devices.Ensure(ctx, cfg.Device.ID); err != nil {
		log.Errorw("failed to ensure device row", "err", err)
		return err
	}

	metrics := telemetry.NewMetrics()
	recorders := telemetry.Multi{metrics}
	if rt.influx, err = telemetry.Connect(cfg.InfluxDB); err == nil {
		rt.influx.SetOnError(func(err error) { log.Warnw("influx_write_failed", "err", err) })
		recorders = append(recorders, rt.influx)
	} else if !errors.Is(err, telemetry.ErrDisabled) {
		// history is optional; keep running without it
		log.Warnw("influx_unavailable", "err", err)
	}

	channel, err := openChannel(ctx, cfg, repos, rt, log)
	if err != nil {
		log.Errorw("failed to open device channel", "err", err, "transport", cfg.Device.Transport)
		return err
	}

	services, err := service.NewService(repos, service.Options{
		DeviceID:  cfg.Device.ID,
		Feeder:    cfg.Feeder,
		Channel:   channel,
		Telemetry: recorders,
		Log:       log,
	})
	if err != nil {
		return err
	}
	if err := services.Dispatcher.Recover(ctx); err != nil {
		log.Warnw("dispenser_recovery_failed", "err", err)
	}
	rt.goLoop(func() {
		services.Run(ctx, cfg.Feeder.StatusPollInterval(), cfg.Feeder.SchedulePollInterval())
	})

	apiHandler := handlers.NewHandler(services, log).
		WithMetrics(metrics.Handler()).
		WithHealthCheck("db", rt.db.PingContext)
	if rt.broker != nil {
		apiHandler.WithHealthCheck("mqtt", rt.broker.HealthCheck)
	}
	if rt.influx != nil {
		apiHandler.WithHealthCheck("influxdb", rt.influx.HealthCheck)
	}

	srv := server.New(server.Options{})
	serveErr := runHTTPServer(srv, cfg.Port, apiHandler, log)

	return waitForShutdown(cancel, srv, services, rt, serveErr, log)
}

// openChannel picks the device transport.
func openChannel(ctx context.Context, cfg config.Config, repos *repository.Repository, rt *resources, log *logger.Logger) (device.Channel, error) {
	switch cfg.Device.Transport {
	case config.TransportMQTT:
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		rt.broker = client
		client.SetLogger(log.With("component", "mqtt"))
		ch := device.NewMQTTChannel(client, cfg.Device.ID, byte(cfg.MQTT.QoS), repos.Devices, log.With("component", "device"))
		if err := ch.Start(); err != nil {
			return nil, err
		}
		return ch, nil
	default:
		sim := device.NewSimulator(cfg.Simulator, cfg.Device.ID, repos.Devices, log.With("component", "simulator"))
		rt.goLoop(func() { sim.Run(ctx, cfg.Simulator.Tick()) })
		log.Infow("using simulated feeder", "device_id", cfg.Device.ID)
		return sim, nil
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine; its error is delivered on the channel.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", port)
		errCh <- srv.Run(port, handler.InitRoutes())
	}()
	return errCh
}

// waitForShutdown blocks until a signal or a server failure, then drains HTTP,
// waits for the background loops and fires pending closes. Closes armed by an
// in-flight dispense are only visible to the dispatcher once the loops are done.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, rt *resources,
	serveErr <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		log.Infow("shutting down server...")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Errorw("error starting server", "err", runErr)
		}
	}

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	if err := rt.waitLoops(ctx); err != nil {
		log.Errorw("background loops did not stop", "err", err)
	}
	if err := services.Dispatcher.Shutdown(ctx); err != nil {
		log.Errorw("pending closes did not finish", "err", err)
	}
	return runErr
}

func (rt *resources) close(log *logger.Logger) {
	if rt.broker != nil {
		if err := rt.broker.Close(); err != nil {
			log.Warnw("mqtt_close_failed", "err", err)
		}
	}
	if rt.influx != nil {
		if err := rt.influx.Close(); err != nil {
			log.Warnw("influx_close_failed", "err", err)
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			log.Warnw("failed to close sqlite", "err", err)
		}
	}
	_ = log.Sync()
}
