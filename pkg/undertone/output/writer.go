package output

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
)

type PayloadFormat string

const (
	PayloadFormatText PayloadFormat = "text"
	PayloadFormatHex  PayloadFormat = "hex"
	PayloadFormatRaw  PayloadFormat = "raw"
)

func ParsePayloadFormat(s string) (PayloadFormat, error) {
	switch f := PayloadFormat(s); f {
	case "":
		return PayloadFormatText, nil
	case PayloadFormatText, PayloadFormatHex, PayloadFormatRaw:
		return f, nil
	default:
		return "", fmt.Errorf("unknown payload format %q", s)
	}
}

// PayloadWriterOutput writes each payload to dest, one per line unless the
// format is raw.
type PayloadWriterOutput struct {
	dest     io.Writer
	format   PayloadFormat
	recvChan chan *Payload
}

func NewPayloadWriterOutput(dest io.Writer, format PayloadFormat) *PayloadWriterOutput {
	return &PayloadWriterOutput{
		dest:     dest,
		format:   format,
		recvChan: make(chan *Payload, receiveChannels),
	}
}

func (p *PayloadWriterOutput) Receive() chan<- *Payload {
	return p.recvChan
}

func (p *PayloadWriterOutput) write(payload *Payload) error {
	var err error
	switch p.format {
	case PayloadFormatHex:
		_, err = fmt.Fprintln(p.dest, hex.EncodeToString(payload.Data))
	case PayloadFormatRaw:
		_, err = p.dest.Write(payload.Data)
	default:
		_, err = fmt.Fprintln(p.dest, string(payload.Data))
	}
	return err
}

func (p *PayloadWriterOutput) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-p.recvChan:
			if !ok {
				return nil
			}
			if err := p.write(payload); err != nil {
				return err
			}
		}
	}
}
