package csv

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for parse and decode events.
var (
	SignalParseStart     = capitan.NewSignal("csv.parse.start", "Parse operation beginning")
	SignalParseComplete  = capitan.NewSignal("csv.parse.complete", "Parse operation finished")
	SignalDecodeStart    = capitan.NewSignal("csv.decode.start", "Decode operation beginning")
	SignalDecodeComplete = capitan.NewSignal("csv.decode.complete", "Decode operation finished")
	SignalDecoderDerived = capitan.NewSignal("csv.decoder.derived", "Tag-driven decoder built for a type")
)

// Keys for typed event data.
var (
	KeySeparator     = capitan.NewStringKey("separator")
	KeyInputSize     = capitan.NewIntKey("input_size")
	KeyHeaderCount   = capitan.NewIntKey("header_count")
	KeyRecordCount   = capitan.NewIntKey("record_count")
	KeyFailedRecords = capitan.NewIntKey("failed_records")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyFieldCount    = capitan.NewIntKey("field_count")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
)

// emitParseStart emits an event when a parse begins.
func emitParseStart(ctx context.Context, separator string, size int) {
	capitan.Emit(ctx, SignalParseStart,
		KeySeparator.Field(separator),
		KeyInputSize.Field(size),
	)
}

// emitParseComplete emits an event when a parse finishes.
func emitParseComplete(ctx context.Context, separator string, size, headers, records int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySeparator.Field(separator),
		KeyInputSize.Field(size),
		KeyHeaderCount.Field(headers),
		KeyRecordCount.Field(records),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalParseComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalParseComplete, fields...)
	}
}

// emitDecodeStart emits an event when a batch decode begins.
func emitDecodeStart(ctx context.Context, records int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyRecordCount.Field(records),
	)
}

// emitDecodeComplete emits an event when a batch decode finishes.
func emitDecodeComplete(ctx context.Context, records, failed int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyRecordCount.Field(records),
		KeyFailedRecords.Field(failed),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitDecoderDerived emits an event when tag scanning builds a decode plan
// for a type.
func emitDecoderDerived(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalDecoderDerived,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}
