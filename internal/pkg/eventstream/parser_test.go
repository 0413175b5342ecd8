package eventstream

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteAtATimeReader yields at most one byte per Read so that chunk
// boundaries never align with line or rune boundaries.
type byteAtATimeReader struct {
	data []byte
	pos  int
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func collect(t *testing.T, p *Parser) []Event {
	t.Helper()
	var events []Event
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestParserDecodesDataFrame(t *testing.T) {
	p := NewParser(strings.NewReader("data: {\"type\":\"chunk\",\"text\":\"hi\"}\n"))
	events := collect(t, p)

	require.Len(t, events, 1)
	assert.Equal(t, EventChunk, events[0].Type)
	assert.Equal(t, "hi", events[0].Text)
	assert.Zero(t, p.Malformed())
}

func TestParserSkipsMalformedFrame(t *testing.T) {
	input := "data: not-json\n" +
		"data: {\"type\":\"chunk\",\"text\":\"ok\"}\n"

	var dropped []string
	p := NewParser(strings.NewReader(input))
	p.OnDecodeError(func(line string, err error) {
		require.Error(t, err)
		dropped = append(dropped, line)
	})

	events := collect(t, p)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].Text)
	assert.Equal(t, 1, p.Malformed())
	assert.Equal(t, []string{"not-json"}, dropped)
}

func TestParserFiltersBlankAndBareDataLines(t *testing.T) {
	input := "\n" +
		"   \n" +
		"data:\n" +
		"data:   \n" +
		"data: {\"type\":\"chunk\",\"text\":\"a\"}\n"

	p := NewParser(strings.NewReader(input))
	events := collect(t, p)

	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].Text)
	assert.Zero(t, p.Malformed())
}

func TestParserAcceptsPrefixlessLines(t *testing.T) {
	p := NewParser(strings.NewReader("{\"type\":\"chunk\",\"text\":\"raw\"}\n"))
	events := collect(t, p)

	require.Len(t, events, 1)
	assert.Equal(t, "raw", events[0].Text)
}

func TestParserReassemblesSplitMultiByteRunes(t *testing.T) {
	text := "héllo wörld 你好"
	input := "data: {\"type\":\"chunk\",\"text\":\"" + text + "\"}\n"

	whole := NewParser(strings.NewReader(input))
	split := NewParser(&byteAtATimeReader{data: []byte(input)})

	wholeEvents := collect(t, whole)
	splitEvents := collect(t, split)

	require.Len(t, wholeEvents, 1)
	require.Equal(t, wholeEvents, splitEvents)
	assert.Equal(t, text, splitEvents[0].Text)
}

func TestParserFlushesUnterminatedFinalLine(t *testing.T) {
	input := "data: {\"type\":\"chunk\",\"text\":\"first\"}\n" +
		"data: {\"type\":\"chunk\",\"text\":\"last\"}"

	p := NewParser(strings.NewReader(input))
	events := collect(t, p)

	require.Len(t, events, 2)
	assert.Equal(t, "last", events[1].Text)
}

func TestParserHandlesLinesBeyondInitialBuffer(t *testing.T) {
	text := strings.Repeat("x", 96*1024)
	input := "data: {\"type\":\"chunk\",\"text\":\"" + text + "\"}\n"

	p := NewParser(strings.NewReader(input))
	events := collect(t, p)

	require.Len(t, events, 1)
	assert.Len(t, events[0].Text, len(text))
}

func TestParserPreservesUnknownEventTypes(t *testing.T) {
	p := NewParser(strings.NewReader("data: {\"type\":\"done\"}\n"))
	events := collect(t, p)

	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].Type)
	assert.Empty(t, events[0].Text)
}
