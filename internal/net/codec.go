package net

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire framing: [1 byte marker 0xAA][2 bytes BE payload length][payload].
// The first payload byte is the opcode.

const frameMarker = 0xAA

// maxFrameLen bounds a single frame; anything larger is a protocol
// violation, not a legitimate packet.
const maxFrameLen = 8192

// ReadFrame reads one frame from r and returns the payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [3]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	if header[0] != frameMarker {
		return nil, fmt.Errorf("bad frame marker 0x%02X", header[0])
	}

	payloadLen := int(binary.BigEndian.Uint16(header[1:]))
	if payloadLen == 0 || payloadLen > maxFrameLen {
		return nil, fmt.Errorf("invalid frame length: %d", payloadLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", payloadLen, err)
	}
	return payload, nil
}

// WriteFrame writes one frame containing data to w.
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > maxFrameLen {
		return fmt.Errorf("frame too large: %d", len(data))
	}
	var header [3]byte
	header[0] = frameMarker
	binary.BigEndian.PutUint16(header[1:], uint16(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}
