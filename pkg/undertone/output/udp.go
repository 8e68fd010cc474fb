package output

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const receiveChannels = 8

type Destination struct {
	Host string
	Port int
}

// UDPPayloadOutput sends every payload as one datagram to each destination.
type UDPPayloadOutput struct {
	dests    []Destination
	recvChan chan *Payload
	metrics  api.WriteAPI
	logger   zerolog.Logger
}

func NewUDPPayloadOutput(dests []Destination, metrics api.WriteAPI, logger zerolog.Logger) *UDPPayloadOutput {
	return &UDPPayloadOutput{
		dests:    dests,
		recvChan: make(chan *Payload, receiveChannels),
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *UDPPayloadOutput) Receive() chan<- *Payload {
	return s.recvChan
}

func (s *UDPPayloadOutput) resolve() ([]*net.UDPAddr, error) {
	destAddrs := make([]*net.UDPAddr, 0, len(s.dests))
	for _, dest := range s.dests {
		ips, err := net.LookupIP(dest.Host)
		if err != nil {
			return nil, err
		}
		if len(ips) == 0 {
			return nil, fmt.Errorf("no IPs returned for %s", dest.Host)
		}

		destAddr := &net.UDPAddr{IP: ips[0], Port: dest.Port}
		destAddrs = append(destAddrs, destAddr)
		s.logger.Info().IPAddr("dest_ip", destAddr.IP).Int("port", dest.Port).Msg("payload output starting")
	}
	return destAddrs, nil
}

func (s *UDPPayloadOutput) Start(ctx context.Context) error {
	destAddrs, err := s.resolve()
	if err != nil {
		return err
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	eg.Go(func() error {
		select {
		case <-ctx.Done():
		case <-done:
		}
		return conn.Close()
	})

	eg.Go(func() error {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case payload, ok := <-s.recvChan:
				if !ok {
					return nil
				}

				sent, dropped := 0, 0
				var bytesWritten int
				for _, destAddr := range destAddrs {
					n, err := conn.WriteToUDP(payload.Data, destAddr)
					if err != nil {
						s.logger.Error().Err(err).Str("dest", destAddr.String()).Msg("error writing")
						dropped++
						continue
					}
					bytesWritten += n
					sent++
				}

				go s.metrics.WritePoint(influxdb2.NewPoint("undertone.payload.sent",
					map[string]string{
						"destinations": strconv.Itoa(len(destAddrs)),
					},
					map[string]interface{}{
						"bytes_written":  bytesWritten,
						"payload_length": len(payload.Data),
						"segment":        payload.SegmentNumber,
						"sent":           sent,
						"dropped":        dropped,
					}, time.Now()))
			}
		}
	})

	return eg.Wait()
}
