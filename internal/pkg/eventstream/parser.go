package eventstream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const dataPrefix = "data:"

const EventChunk = "chunk"

// Event is one decoded frame of the line-oriented stream protocol.
type Event struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Parser turns a raw byte stream into decoded events. Bytes are buffered
// line-wise, so transport chunk boundaries may fall anywhere, including
// inside a multi-byte character. A trailing line without a newline is
// flushed when the stream ends.
type Parser struct {
	scanner   *bufio.Scanner
	malformed int
	onError   func(line string, err error)
}

func NewParser(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	return &Parser{scanner: scanner}
}

// OnDecodeError registers a callback invoked once per dropped frame.
func (p *Parser) OnDecodeError(fn func(line string, err error)) {
	p.onError = fn
}

// Next returns the next decoded event. Blank lines are filtered and frames
// that fail to decode are dropped without aborting the stream. io.EOF
// signals end of stream; any other error is a transport-level fault.
func (p *Parser) Next() (Event, error) {
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if strings.HasPrefix(line, dataPrefix) {
			line = strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		}
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			p.malformed++
			if p.onError != nil {
				p.onError(line, err)
			}
			continue
		}
		return ev, nil
	}
	if err := p.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Malformed reports how many frames were dropped by decode failures.
func (p *Parser) Malformed() int {
	return p.malformed
}
