// Package domain contains the core entities of the ASTM framing layer.
//
// This package is the innermost layer of astmframe. It has no dependencies
// on logging, configuration or I/O and holds only the data model that the
// chunker and reassembler transform between.
//
// # Entities
//
//   - [Message]: an ordered sequence of records, in instrument transmission order
//   - [Record]: one logical unit of message text, immutable once constructed
//   - [Frame]: a bounded slice of record text with a type and a cyclic frame number
//   - [FrameType]: the closed set of frame kinds
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (records and messages copy their inputs)
//   - Free of infrastructure dependencies
//   - Safe to share between goroutines once built
package domain
