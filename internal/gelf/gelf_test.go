package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSendsGELF(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "oxidocs")
	require.NoError(t, err)
	defer w.Close()

	line := "2024/05/01 10:00:00 Warning: publish document.created for 3: closed\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	buf := make([]byte, 4096)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err = pc.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &got))
	assert.Equal(t, "1.1", got["version"])
	assert.Equal(t, "Warning: publish document.created for 3: closed", got["short_message"])
	assert.Equal(t, float64(4), got["level"])
	assert.Equal(t, "oxidocs", got["_service"])
	assert.NotContains(t, got, "full_message")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 3, level("Error: panic in GET /"))
	assert.Equal(t, 4, level("Warning: health check: gone"))
	assert.Equal(t, 6, level("GET /api/clients 200 1ms"))
}
