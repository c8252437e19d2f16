package csv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitParseStart(_ *testing.T) {
	// Should not panic
	emitParseStart(context.Background(), ",", 128)
}

func TestEmitParseComplete_Success(_ *testing.T) {
	emitParseComplete(context.Background(), ",", 128, 3, 10, 5*time.Millisecond, nil)
}

func TestEmitParseComplete_Error(_ *testing.T) {
	emitParseComplete(context.Background(), ",", 128, 0, 0, 5*time.Millisecond, errors.New("test error"))
}

func TestEmitDecodeStart(_ *testing.T) {
	emitDecodeStart(context.Background(), 10)
}

func TestEmitDecodeComplete_Success(_ *testing.T) {
	emitDecodeComplete(context.Background(), 10, 0, 5*time.Millisecond, nil)
}

func TestEmitDecodeComplete_Error(_ *testing.T) {
	emitDecodeComplete(context.Background(), 10, 2, 5*time.Millisecond, errors.New("test error"))
}

func TestEmitDecoderDerived(_ *testing.T) {
	emitDecoderDerived(context.Background(), "TestType", 4)
}

func TestSignalVariables(t *testing.T) {
	// Verify signals are properly initialized
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalParseStart", SignalParseStart},
		{"SignalParseComplete", SignalParseComplete},
		{"SignalDecodeStart", SignalDecodeStart},
		{"SignalDecodeComplete", SignalDecodeComplete},
		{"SignalDecoderDerived", SignalDecoderDerived},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	// Verify keys are properly initialized
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeySeparator", KeySeparator},
		{"KeyInputSize", KeyInputSize},
		{"KeyHeaderCount", KeyHeaderCount},
		{"KeyRecordCount", KeyRecordCount},
		{"KeyFailedRecords", KeyFailedRecords},
		{"KeyTypeName", KeyTypeName},
		{"KeyFieldCount", KeyFieldCount},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
