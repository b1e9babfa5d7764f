package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"
	"github.com/spf13/cobra"

	"github.com/hubertat/swsketch"
	"github.com/hubertat/swsketch/drivers"
)

var (
	Version string
	Build   string

	swsService = servicemaker.ServiceMaker{
		User:               "swsketch",
		UserGroups:         []string{"gpio", "spi", "i2c", "dialout"},
		ServicePath:        "/etc/systemd/system/swsketch.service",
		ServiceDescription: "SwSketch service: blinking LED and analog serial reporter. github.com/hubertat/swsketch",
		ExecDir:            "/srv/swsketch",
		ExecName:           "swsketch",
	}
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		config string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:          "swsketch",
		Short:        "Blink an LED or stream analog readings over serial",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetReportTimestamp(true)
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			log.Debug("swsketch started", "version", Version, "build", Build)
		},
	}

	cmd.PersistentFlags().StringVar(&config, "config", "config.json", "path of the configuration file (.json, .toml, .yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newBlinkCmd(&config),
		newReportCmd(&config),
		newStatusCmd(&config),
		newInstallCmd(),
	)
	return cmd
}

// setup loads config and brings up drivers and sketches. The returned
// SwSketch must be closed even when err is set.
func setup(ctx context.Context, config string) (*swsketch.SwSketch, error) {
	sw, err := swsketch.LoadConfig(config)
	if err != nil {
		return nil, err
	}

	log.Info("will init drivers...")
	err = sw.InitDrivers(ctx)
	if err != nil {
		return sw, err
	}

	log.Info("will init sketches...")
	err = sw.InitSketches()
	return sw, err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newBlinkCmd(config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "blink",
		Short: "Run the blinker sketch until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			sw, err := setup(ctx, *config)
			if sw != nil {
				defer sw.Close()
			}
			if err != nil {
				return err
			}

			sw.PrintIoStatus(cmd.OutOrStdout())
			return sw.RunBlinker(ctx)
		},
	}
}

func newReportCmd(config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Run the analog reporter sketch until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			sw, err := setup(ctx, *config)
			if sw != nil {
				defer sw.Close()
			}
			if err != nil {
				return err
			}

			if len(sw.MqttBroker) > 0 {
				err = sw.InitMqtt()
				if err != nil {
					log.Warn("mqtt mirror disabled", "err", err)
				}
			}
			if sw.Influx != nil {
				err = sw.InitInflux(ctx)
				if err != nil {
					log.Warn("influx mirror disabled", "err", err)
				}
			}

			sw.PrintIoStatus(cmd.OutOrStdout())
			return sw.RunReporter(ctx)
		},
	}
}

func newStatusCmd(config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Set up drivers, print their state and the serial ports found",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sw, err := setup(cmd.Context(), *config)
			if sw != nil {
				defer sw.Close()
			}
			if err != nil {
				return err
			}

			sw.PrintIoStatus(cmd.OutOrStdout())

			ports, err := drivers.AvailablePorts()
			if err != nil {
				log.Warn("listing serial ports failed", "err", err)
				return nil
			}
			for _, port := range ports {
				cmd.Println("serial port:", port)
			}
			return nil
		},
	}
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install swsketch as a systemd service",
		RunE: func(_ *cobra.Command, _ []string) error {
			err := swsService.InstallService()
			if err != nil {
				return err
			}
			log.Info("service installed!")
			return nil
		},
	}
}
