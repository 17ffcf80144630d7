// Package message implements the schema layer of the WheelChock
// communication library: typed messages, payload validation, the schema
// descriptor registry, and the wire codec.
//
// # Architecture
//
// Messages are the only values that cross the library's application-facing
// boundaries. A Message combines a structured Type (domain, category,
// version), a validated Payload, and Meta describing lifecycle and origin.
// A Message is never observable in an un-validated state: the codec
// validates on both the encode and decode paths and fails rather than
// returning a partially valid instance.
//
// The Registry maps message types to schema descriptors. A descriptor binds
// the type to a payload factory and an optional JSON Schema constraint
// document; decoding looks the descriptor up before any payload bytes are
// touched and fails fast when the type is unknown. Explicit migration rules
// may be registered to bridge schema versions; without a rule, a version
// mismatch is a hard failure.
//
// The Codec produces and consumes the wire format. Error classification is
// asymmetric on purpose: a schema violation while encoding is a programmer
// or input error (errors.KindValidation, loud, non-retryable), while
// malformed bytes arriving from the transport are a data error
// (errors.KindMalformedData) that subscribers recover from by dropping the
// message.
//
// # Wire Format
//
// The wire format is JSON and symmetric: for every valid message m,
// Decode(Encode(m)) yields an equivalent message. Layout:
//
//	{
//	  "id": "uuid",
//	  "type": {"domain": "chock", "category": "sensor", "version": "v1"},
//	  "sequence": 42,
//	  "payload": { ... },
//	  "meta": {"created_at": 1673785845123, "source": "sensor-front"}
//	}
package message
