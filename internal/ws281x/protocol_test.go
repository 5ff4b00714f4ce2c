package ws281x

import (
	"bufio"
	"bytes"
	"testing"
)

func TestEncodeHandshakeIsBareDecimalLine(t *testing.T) {
	got := EncodeHandshake(144)
	want := []byte("144\r\n")
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeHandshake(144) = %q, want %q", got, want)
	}
}

func TestReadCountParsesBareDecimalLine(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("144\r\n"))
	n, err := readCount(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 144 {
		t.Errorf("got %d, want 144", n)
	}
}

func TestReadCountRoundTripsWithEncodeHandshake(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(EncodeHandshake(30)))
	n, err := readCount(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 30 {
		t.Errorf("got %d, want 30", n)
	}
}

func TestReadCountRejectsBraces(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("{144}\r\n"))
	if _, err := readCount(r); err == nil {
		t.Error("expected an error for a braced handshake line")
	}
}

func TestReadCountRejectsNonNumeric(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("abc\r\n"))
	if _, err := readCount(r); err == nil {
		t.Error("expected an error for a non-numeric handshake line")
	}
}

func TestEncodeFrameConcatenatesTriplesWithNoDelimiter(t *testing.T) {
	got := encodeFrame([]uint32{0xff0000, 0x00ff00, 0x0000ff})
	want := []byte("ff000000ff000000ff\r\n")
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeFrame = %q, want %q", got, want)
	}
}

func TestParseFrameRoundTripsWithEncodeFrame(t *testing.T) {
	colors := []uint32{0xff0000, 0x00ff00, 0x0000ff}
	line := string(bytes.TrimRight(encodeFrame(colors), "\r\n"))

	got, err := parseFrame(line, len(colors))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(colors) {
		t.Fatalf("got %d colors, want %d", len(got), len(colors))
	}
	for i := range colors {
		if got[i] != colors[i] {
			t.Errorf("color[%d] = %06x, want %06x", i, got[i], colors[i])
		}
	}
}

func TestParseFrameRejectsWrongLength(t *testing.T) {
	if _, err := parseFrame("ff0000", 2); err == nil {
		t.Error("expected an error for a frame of the wrong length")
	}
}

func TestParseFrameRejectsUppercaseHex(t *testing.T) {
	if _, err := parseFrame("FF0000", 1); err == nil {
		t.Error("expected an error for uppercase hex digits")
	}
}

func TestReadFrameReadsOneLine(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("ff0000\r\n"))
	colors, err := ReadFrame(r, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(colors) != 1 || colors[0] != 0xff0000 {
		t.Errorf("got %v, want [0xff0000]", colors)
	}
}
