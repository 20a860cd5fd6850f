package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer
// so it can be used with log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
// service is reported in the _service field.
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Each call sends one GELF message.
// The date prefix the log package adds ("2006/01/02 15:04:05 ") and the
// trailing newline are stripped from short_message.
func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")

	short := msg
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		short = msg[20:]
	}
	// multi-line entries (panic stacks) go to full_message
	full := ""
	if i := strings.IndexByte(short, '\n'); i >= 0 {
		full = short
		short = short[:i]
	}

	payload, err := json.Marshal(message{
		Version:   "1.1",
		Host:      w.hostname,
		Short:     short,
		Full:      full,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Level:     level(short),
		Service:   w.service,
	})
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

type message struct {
	Version   string  `json:"version"`
	Host      string  `json:"host"`
	Short     string  `json:"short_message"`
	Full      string  `json:"full_message,omitempty"`
	Timestamp float64 `json:"timestamp"`
	Level     int     `json:"level"`
	Service   string  `json:"_service"`
}

// level maps the message prefixes used across the service to syslog levels.
func level(short string) int {
	switch {
	case strings.HasPrefix(short, "Error:"), strings.Contains(short, "PANIC:"), strings.Contains(short, "Fatal"):
		return 3
	case strings.HasPrefix(short, "Warning:"):
		return 4
	default:
		return 6
	}
}
