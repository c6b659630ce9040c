package scanner

import (
	"context"
	"errors"
)

// ErrUnavailable signals that a detector cannot run in the current
// environment, e.g. no native barcode capability.
var ErrUnavailable = errors.New("scanner unavailable")

// Detector is a camera-based code detector. Implementations invoke the
// registered callback once per detected code between Start and Stop.
type Detector interface {
	Start(ctx context.Context) error
	Stop() error
	OnDetect(fn func(code string))
}

// Select starts the preferred native detector, falling back to the secondary
// one when the native detector is absent or fails to start. Returns the
// detector that is now running.
func Select(ctx context.Context, native, fallback Detector) (Detector, error) {
	if native != nil {
		if err := native.Start(ctx); err == nil {
			return native, nil
		}
	}
	if fallback == nil {
		return nil, ErrUnavailable
	}
	if err := fallback.Start(ctx); err != nil {
		return nil, err
	}
	return fallback, nil
}

// FuncDetector adapts plain functions to the Detector interface, for wiring
// concrete camera backends and for tests.
type FuncDetector struct {
	StartFunc func(ctx context.Context) error
	StopFunc  func() error
	onDetect  func(code string)
}

func (d *FuncDetector) Start(ctx context.Context) error {
	if d.StartFunc == nil {
		return ErrUnavailable
	}
	return d.StartFunc(ctx)
}

func (d *FuncDetector) Stop() error {
	if d.StopFunc == nil {
		return nil
	}
	return d.StopFunc()
}

func (d *FuncDetector) OnDetect(fn func(code string)) {
	d.onDetect = fn
}

// Emit delivers a detected code to the registered callback.
func (d *FuncDetector) Emit(code string) {
	if d.onDetect != nil {
		d.onDetect(code)
	}
}
