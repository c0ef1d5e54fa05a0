package domain

import "strings"

// RecordSeparator terminates each record on the wire (carriage return).
const RecordSeparator = "\r"

// Record is a single logical unit of message text.
// Record text produced by reassembly may contain several CR-separated lines.
type Record struct {
	text string
}

// NewRecord creates a record from its text.
func NewRecord(text string) Record {
	return Record{text: text}
}

// Text returns the record text.
func (r Record) Text() string {
	return r.text
}

// Len returns the length of the record text in bytes.
func (r Record) Len() int {
	return len(r.text)
}

// Message is an ordered sequence of records.
type Message struct {
	records []Record
}

// NewMessage creates a message from records. The slice is copied.
func NewMessage(records ...Record) Message {
	if len(records) == 0 {
		return Message{}
	}
	return Message{records: append([]Record(nil), records...)}
}

// NewMessageFromText splits message text into records.
// Lines may be separated by CR, LF or CRLF. Each non-empty line becomes one
// record terminated by RecordSeparator.
func NewMessageFromText(text string) Message {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var records []Record
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		records = append(records, NewRecord(line+RecordSeparator))
	}
	return Message{records: records}
}

// Records returns a copy of the message's records in order.
func (m Message) Records() []Record {
	return append([]Record(nil), m.records...)
}

// Len returns the number of records.
func (m Message) Len() int {
	return len(m.records)
}

// Record returns the record at index i.
func (m Message) Record(i int) Record {
	return m.records[i]
}

// Complete reports whether the message holds at least one record.
// A reassembled message with no records means no terminator was seen and the
// transmission was incomplete.
func (m Message) Complete() bool {
	return len(m.records) > 0
}

// Text concatenates all record texts in order.
func (m Message) Text() string {
	var b strings.Builder
	for _, r := range m.records {
		b.WriteString(r.text)
	}
	return b.String()
}

// WithRecord returns a new message with r appended.
func (m Message) WithRecord(r Record) Message {
	records := make([]Record, len(m.records), len(m.records)+1)
	copy(records, m.records)
	return Message{records: append(records, r)}
}
