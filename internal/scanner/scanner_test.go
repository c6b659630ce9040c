package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrefersNative(t *testing.T) {
	native := &FuncDetector{StartFunc: func(context.Context) error { return nil }}
	fallback := &FuncDetector{StartFunc: func(context.Context) error { t.Fatal("fallback must not start"); return nil }}

	got, err := Select(context.Background(), native, fallback)
	require.NoError(t, err)
	assert.Same(t, native, got.(*FuncDetector))
}

func TestSelectFallsBackOnNativeFailure(t *testing.T) {
	native := &FuncDetector{StartFunc: func(context.Context) error { return errors.New("camera busy") }}
	fallback := &FuncDetector{StartFunc: func(context.Context) error { return nil }}

	got, err := Select(context.Background(), native, fallback)
	require.NoError(t, err)
	assert.Same(t, fallback, got.(*FuncDetector))
}

func TestSelectFallsBackOnMissingNative(t *testing.T) {
	fallback := &FuncDetector{StartFunc: func(context.Context) error { return nil }}

	got, err := Select(context.Background(), nil, fallback)
	require.NoError(t, err)
	assert.Same(t, fallback, got.(*FuncDetector))
}

func TestSelectNoDetectorAvailable(t *testing.T) {
	_, err := Select(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFuncDetectorEmit(t *testing.T) {
	d := &FuncDetector{StartFunc: func(context.Context) error { return nil }}

	var codes []string
	d.OnDetect(func(code string) { codes = append(codes, code) })
	d.Emit("AUD-001")
	d.Emit("LGT-002")

	assert.Equal(t, []string{"AUD-001", "LGT-002"}, codes)
}
