// SPDX-License-Identifier: MIT

// Package output wraps a destination stream with an optional compression
// codec and writes compiled transducers to it in AT&T text form.
//
// Closing the returned writer flushes the codec but never closes the
// underlying stream; that stays with the caller.
package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/lexd/fst"
)

// Codec names a compression format.
type Codec string

// Supported codecs.
const (
	CodecNone Codec = "none"
	CodecGzip Codec = "gzip"
	CodecZstd Codec = "zstd"
)

// ErrUnknownCodec is returned for codec names other than the supported ones.
var ErrUnknownCodec = errors.New("output: unknown codec")

// Codecs lists the supported codecs in display order.
func Codecs() []Codec { return []Codec{CodecNone, CodecGzip, CodecZstd} }

// ParseCodec maps a user-supplied name to a Codec. The empty string is
// CodecNone; "gz" and "zst" are accepted as aliases.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CodecNone, nil
	case "gzip", "gz":
		return CodecGzip, nil
	case "zstd", "zst":
		return CodecZstd, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownCodec)
}

// Extension is the conventional file suffix for c.
func (c Codec) Extension() string {
	switch c {
	case CodecGzip:
		return ".gz"
	case CodecZstd:
		return ".zst"
	}
	return ""
}

// CodecForPath picks a codec from the file extension of path.
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CodecGzip
	case ".zst", ".zstd":
		return CodecZstd
	}
	return CodecNone
}

// nopCloser keeps Close away from the destination.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter returns a writer that encodes into w with codec c.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecNone, "":
		return nopCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, fmt.Errorf("output: zstd: %w", err)
		}
		return enc, nil
	}
	return nil, fmt.Errorf("%q: %w", string(c), ErrUnknownCodec)
}

// NewReader is the decoding counterpart of NewWriter.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecNone, "":
		return io.NopCloser(r), nil
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("output: gzip: %w", err)
		}
		return zr, nil
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("output: zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("%q: %w", string(c), ErrUnknownCodec)
}

// WriteATT encodes t as AT&T text through codec c.
func WriteATT(w io.Writer, c Codec, t *fst.Transducer, a *fst.Alphabet) error {
	cw, err := NewWriter(w, c)
	if err != nil {
		return err
	}
	if err := fst.WriteATT(cw, t, a); err != nil {
		_ = cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("output: %s: %w", c, err)
	}
	return nil
}
