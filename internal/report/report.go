package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"fpwalk/pkg/color"
	"fpwalk/pkg/unwind"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Printer receives the frames of one walk in order.
type Printer interface {
	Anchor(addr uintptr) error
	Return(index int, addr uintptr) error
	Close() error
}

// New returns a printer writing the given format to w. convention names the
// calling convention in structured formats.
func New(format Format, w io.Writer, convention string) (Printer, error) {
	switch format {
	case Text, "":
		return &textPrinter{w: w}, nil
	case JSON, YAML:
		return &docPrinter{w: w, format: format, trace: Trace{Convention: convention}}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// textPrinter writes every frame as soon as it arrives.
type textPrinter struct {
	w io.Writer
}

func (p *textPrinter) Anchor(addr uintptr) error {
	_, err := fmt.Fprintf(p.w, "%s: %s\n", color.Index("#0"), color.Anchor(unwind.Addr(addr)))
	return err
}

func (p *textPrinter) Return(index int, addr uintptr) error {
	_, err := fmt.Fprintf(p.w, "%s: %s\n", color.Index("#"+strconv.Itoa(index)), color.Address(unwind.Addr(addr)))
	return err
}

func (p *textPrinter) Close() error {
	return nil
}

// Trace is the structured form of one walk.
type Trace struct {
	Convention string  `json:"convention" yaml:"convention"`
	Anchor     string  `json:"anchor" yaml:"anchor"`
	Frames     []Frame `json:"frames" yaml:"frames"`
}

// Frame is one return address of a Trace.
type Frame struct {
	Index         int    `json:"index" yaml:"index"`
	ReturnAddress string `json:"return_address" yaml:"return_address"`
}

// docPrinter collects the walk and encodes it as one document on Close.
type docPrinter struct {
	w      io.Writer
	format Format
	trace  Trace
}

func (p *docPrinter) Anchor(addr uintptr) error {
	p.trace.Anchor = unwind.Addr(addr)
	return nil
}

func (p *docPrinter) Return(index int, addr uintptr) error {
	p.trace.Frames = append(p.trace.Frames, Frame{Index: index, ReturnAddress: unwind.Addr(addr)})
	return nil
}

func (p *docPrinter) Close() error {
	if p.trace.Frames == nil {
		p.trace.Frames = []Frame{}
	}

	if p.format == YAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(p.trace); err != nil {
			return fmt.Errorf("encode yaml trace: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.trace); err != nil {
		return fmt.Errorf("encode json trace: %w", err)
	}
	return nil
}
