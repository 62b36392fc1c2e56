package net

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0x11, 0x00, 0x03, 0xFF}

	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameRejectsBadMarker(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x55, 0x00, 0x02, 0x10, 0x00})
	_, err := ReadFrame(buf)
	assert.Error(t, err)
}

func TestReadFrameRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(frameMarker)
	buf.Write([]byte{0xFF, 0xFF}) // length 65535, over the cap
	_, err := ReadFrame(&buf)
	assert.Error(t, err)
}

func TestCipherIsItsOwnInverse(t *testing.T) {
	c := NewCipher(12345)
	data := []byte{0x11, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x42}
	orig := append([]byte(nil), data...)

	c.Apply(data)
	assert.NotEqual(t, orig[1:], data[1:], "payload should change")
	assert.Equal(t, orig[0], data[0], "opcode byte stays in the clear")

	c.Apply(data)
	assert.Equal(t, orig, data)
}

func TestCipherSeedDeterminesKeystream(t *testing.T) {
	a := NewCipher(777)
	b := NewCipher(777)
	c := NewCipher(778)

	data1 := []byte{0x11, 1, 2, 3, 4, 5}
	data2 := append([]byte(nil), data1...)
	data3 := append([]byte(nil), data1...)

	a.Apply(data1)
	b.Apply(data2)
	c.Apply(data3)

	assert.Equal(t, data1, data2, "same seed, same keystream")
	assert.NotEqual(t, data1, data3, "different seed, different keystream")
}
