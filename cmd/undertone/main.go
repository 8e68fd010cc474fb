package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ravenstine/undertone/pkg/dsp/viz"
	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/Ravenstine/undertone/pkg/undertone"
	"github.com/Ravenstine/undertone/pkg/undertone/config"
	"github.com/Ravenstine/undertone/pkg/undertone/device"
	"github.com/Ravenstine/undertone/pkg/undertone/device/file"
	"github.com/Ravenstine/undertone/pkg/undertone/device/stream"
	"github.com/Ravenstine/undertone/pkg/undertone/output"
	"github.com/Ravenstine/undertone/pkg/util"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	configFile := flag.String("config", "", "YAML config file")
	mode := flag.String("mode", "receive", "send or receive")

	flag.Parse()

	opts := config.Default()
	if *configFile != "" {
		var err error
		opts, err = config.Load(*configFile)
		if err != nil {
			log.Fatal().Err(err).Msg("error reading config file")
		}
	}
	if level, err := opts.Level(); err == nil {
		log.Logger = log.Logger.Level(level)
	}

	undertoneOpts, err := opts.ToOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	depth, err := modem.ParseBitDepth(opts.BitDepth)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var writeAPI api.WriteAPI = &util.MockWriteAPI{}
	if opts.InfluxDB.Host != "" {
		client := influxdb2.NewClient(opts.InfluxDB.Host, "")
		defer client.Close()
		writeAPI = client.WriteAPI(opts.InfluxDB.Organization, opts.InfluxDB.Bucket)
	}

	undertoneOptions := []undertone.Option{
		undertone.WithInfluxDB(writeAPI),
		undertone.WithLogger(log.Logger),
	}
	if opts.VizServer.Port > 0 {
		undertoneOptions = append(undertoneOptions,
			undertone.WithImageServer(viz.NewServer(opts.VizServer.Port, opts.VizServer.UpdateInterval)))
	}

	var run func(ctx context.Context, u *undertone.Undertone) error
	var dev device.Device

	switch *mode {
	case "send":
		var audioOut undertone.AudioOutput
		if opts.RecordLocation != "" {
			f, err := os.Create(opts.RecordLocation)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create recording")
			}
			defer f.Close()
			audioOut = output.NewWAVOutput(f, opts.SampleRate)
		} else {
			audioOut = output.NewSimpleAudioOutput(os.Stdout, depth)
		}
		undertoneOpts.AudioOutputs = []undertone.AudioOutput{audioOut}
		run = func(ctx context.Context, u *undertone.Undertone) error {
			return send(ctx, u, flag.Args())
		}

	case "receive":
		format, err := output.ParsePayloadFormat(opts.PayloadFormat)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		undertoneOpts.PayloadOutputs = []undertone.PayloadOutput{
			output.NewPayloadWriterOutput(os.Stdout, format),
		}
		if len(opts.OutputDestinations) > 0 {
			undertoneOpts.PayloadOutputs = append(undertoneOpts.PayloadOutputs,
				output.NewUDPPayloadOutput(opts.Destinations(), writeAPI, log.Logger))
		}

		switch opts.Device {
		case "file":
			log.Info().Str("device", "file").Str("location", opts.PlaybackLocation).Msg("initializing device...")
			dev, err = file.NewFileDevice(opts.PlaybackLocation, opts.ReadSize, 0)
		default:
			log.Info().Str("device", "stream").Str("bit_depth", string(depth)).Msg("initializing device...")
			dev, err = stream.NewStreamDevice(os.Stdin, depth, opts.SampleRate, opts.ReadSize)
		}
		if err != nil {
			log.Fatal().Str("device", opts.Device).Err(err).Msg("failed to initialize device")
		}

	default:
		log.Fatal().Str("mode", *mode).Msg("mode must be send or receive")
	}

	u, err := undertone.NewUndertone(dev, undertoneOpts, undertoneOptions...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create modem")
	}

	eg, ctx := errgroup.WithContext(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	eg.Go(func() error {
		select {
		case <-sigChan:
		case <-ctx.Done():
		case <-done:
			return nil
		}

		return u.Stop()
	})

	eg.Go(func() error {
		defer close(done)
		return u.Start(ctx)
	})

	if run != nil {
		eg.Go(func() error {
			return run(ctx, u)
		})
	}

	if err := eg.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("exited program")
	}
}

// send transmits each argument as a payload, or each line of standard input
// when there are none, then closes the audio outputs.
func send(ctx context.Context, u *undertone.Undertone, args []string) error {
	defer u.Close()

	if len(args) > 0 {
		for _, arg := range args {
			if err := u.Send(ctx, []byte(arg)); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := u.Send(ctx, scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
