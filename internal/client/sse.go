package client

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single SSE line. Complete events carry the whole
// structured answer on one data line.
const maxLineSize = 4 << 20

// sseFrame is one dispatched Server-Sent Event.
type sseFrame struct {
	Event string
	Data  string
}

// readSSE parses an event stream and calls fn for every frame. Reading stops
// when fn returns false or an error, or at EOF. A frame still buffered at EOF
// is dispatched.
func readSSE(r io.Reader, fn func(sseFrame) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		event   string
		data    []string
		hasData bool
	)
	dispatch := func() (bool, error) {
		if !hasData && event == "" {
			return true, nil
		}
		f := sseFrame{Event: event, Data: strings.Join(data, "\n")}
		event, data, hasData = "", nil, false
		if f.Event == "" {
			f.Event = "message"
		}
		return fn(f)
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			more, err := dispatch()
			if err != nil || !more {
				return err
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
			hasData = true
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	_, err := dispatch()
	return err
}
