package framefile

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/itech-ahb/astmframe/internal/domain"
)

// recordLine is the JSON shape of one reassembled record.
type recordLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// WriteRecords writes the message's records as JSON lines.
func WriteRecords(w io.Writer, msg domain.Message) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := 0; i < msg.Len(); i++ {
		if err := enc.Encode(recordLine{Index: i, Text: msg.Record(i).Text()}); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecordsText writes one quoted record per line.
func WriteRecordsText(w io.Writer, msg domain.Message) error {
	for i := 0; i < msg.Len(); i++ {
		if _, err := fmt.Fprintf(w, "%d %s\n", i, strconv.Quote(msg.Record(i).Text())); err != nil {
			return err
		}
	}
	return nil
}

// ReadMessageText reads raw message text and splits it into records.
func ReadMessageText(r io.Reader) (domain.Message, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.NewMessageFromText(string(b)), nil
}
