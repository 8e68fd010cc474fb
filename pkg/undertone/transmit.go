package undertone

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"

	"github.com/Ravenstine/undertone/pkg/undertone/output"
)

// Transmit frames payload and returns the modulated samples. The modulator
// keeps its phase between calls, so consecutive results can be played back
// to back.
func (u *Undertone) Transmit(payload []byte) ([]float32, error) {
	u.txMu.Lock()
	defer u.txMu.Unlock()

	packed, err := u.encoder.Encode(payload)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]interface{})
	samples, err := u.txProc.ProcessBytesToFloat(packed, metrics)
	if err != nil {
		return nil, err
	}
	ret := make([]float32, len(samples))
	copy(ret, samples)

	metrics["payload_length"] = len(payload)
	metrics["packet_length"] = len(packed)
	metrics["samples"] = len(ret)
	go u.writeAPI.WritePoint(influxdb2.NewPoint("undertone.tx.packet",
		map[string]string{
			"checksum": u.encoder.Options().Checksum.Name(),
		},
		metrics, time.Now()))

	return ret, nil
}

// Send transmits payload and hands the samples to every audio output.
func (u *Undertone) Send(ctx context.Context, payload []byte) error {
	samples, err := u.Transmit(payload)
	if err != nil {
		return err
	}

	u.logger.Debug().
		Int("payload_length", len(payload)).
		Int("samples", len(samples)).
		Msg("sending packet")

	return u.deliverAudio(ctx, &output.AudioFrame{
		Samples:    samples,
		SampleRate: u.opts.Modem.SampleRate,
		Timestamp:  time.Now(),
	})
}
