package undertone

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"

	"github.com/Ravenstine/undertone/pkg/undertone/output"
)

// Receive runs samples through the receive chain and returns the payloads
// completed by them. Packets may span any number of calls.
func (u *Undertone) Receive(samples []float32) ([][]byte, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	u.rxMu.Lock()
	defer u.rxMu.Unlock()

	metrics := make(map[string]interface{})
	packed, err := u.rxProc.ProcessFloatToBytes(samples, metrics)
	if err != nil {
		return nil, err
	}
	payloads := u.decoder.Decode(packed)

	stats := u.decoder.Stats()
	metrics["samples"] = len(samples)
	metrics["payloads"] = len(payloads)
	metrics["packets_total"] = stats.Packets
	metrics["dropped_total"] = stats.Dropped
	metrics["overflows_total"] = stats.Overflows
	go u.writeAPI.WritePoint(influxdb2.NewPoint("undertone.rx.segment",
		map[string]string{
			"checksum": u.encoder.Options().Checksum.Name(),
		},
		metrics, time.Now()))

	return payloads, nil
}

// Flush feeds silence through the receive chain so that samples held back by
// filters and analysis windows are demodulated, then hands the bits that do
// not fill a byte to the decoder. Call it at end of input.
func (u *Undertone) Flush() ([][]byte, error) {
	payloads, err := u.Receive(make([]float32, u.flushLen))
	if err != nil {
		return nil, err
	}

	u.rxMu.Lock()
	defer u.rxMu.Unlock()
	return append(payloads, u.decoder.DecodeBits(u.demodulator.Drain())...), nil
}

func (u *Undertone) deliverPayloads(ctx context.Context, segmentNumber int, payloads [][]byte) error {
	for _, data := range payloads {
		u.logger.Debug().
			Int("segment", segmentNumber).
			Int("length", len(data)).
			Msg("payload received")

		if err := u.deliverPayload(ctx, &output.Payload{
			Data:          data,
			Timestamp:     time.Now(),
			SegmentNumber: segmentNumber,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (u *Undertone) processSegments(ctx context.Context) error {
	lastSegment := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case seg, ok := <-u.segmentChan:
			if !ok {
				payloads, err := u.Flush()
				if err != nil {
					return err
				}
				if err := u.deliverPayloads(ctx, lastSegment, payloads); err != nil {
					return err
				}

				stats := u.DecoderStats()
				u.logger.Info().
					Int("packets", stats.Packets).
					Int("dropped", stats.Dropped).
					Int("overflows", stats.Overflows).
					Msg("input exhausted")

				u.Close()
				if u.vizServer != nil {
					u.vizServer.Stop(context.Background())
				}
				return nil
			}

			lastSegment = seg.SegmentNumber
			payloads, err := u.Receive(seg.Data)
			if err != nil {
				return err
			}
			if err := u.deliverPayloads(ctx, seg.SegmentNumber, payloads); err != nil {
				return err
			}
		}
	}
}
