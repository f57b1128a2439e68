package output_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/output"
)

// catCats builds the one-path transducer cat:cats.
func catCats(t *testing.T) (*fst.Transducer, *fst.Alphabet) {
	t.Helper()
	a := fst.NewAlphabet()
	tr := fst.New()
	cur := tr.Initial()
	for _, p := range [][2]string{{"c", "c"}, {"a", "a"}, {"t", "t"}, {"", "s"}} {
		var err error
		cur, err = tr.InsertSingle(cur, a.Label(a.Symbol(p[0]), a.Symbol(p[1])))
		require.NoError(t, err)
	}
	require.NoError(t, tr.SetFinal(cur))
	return tr, a
}

func TestParseCodec(t *testing.T) {
	cases := []struct {
		in   string
		want output.Codec
	}{
		{"", output.CodecNone},
		{"none", output.CodecNone},
		{"GZIP", output.CodecGzip},
		{"gz", output.CodecGzip},
		{" zstd ", output.CodecZstd},
		{"zst", output.CodecZstd},
	}
	for _, tc := range cases {
		got, err := output.ParseCodec(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := output.ParseCodec("lz4")
	assert.ErrorIs(t, err, output.ErrUnknownCodec)
}

func TestCodec_Extension(t *testing.T) {
	assert.Equal(t, "", output.CodecNone.Extension())
	assert.Equal(t, ".gz", output.CodecGzip.Extension())
	assert.Equal(t, ".zst", output.CodecZstd.Extension())
}

// TestWriteATT_RoundTrip decodes each codec back to the plain AT&T text.
func TestWriteATT_RoundTrip(t *testing.T) {
	tr, a := catCats(t)
	want, err := fst.FormatATT(tr, a)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	for _, c := range output.Codecs() {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.WriteATT(&buf, c, tr, a))
			if c != output.CodecNone {
				assert.NotEqual(t, want, buf.String())
			}

			r, err := output.NewReader(&buf, c)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, want, string(got))
		})
	}
}

// closeRecorder notes whether Close reached the destination.
type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestNewWriter_LeavesDestinationOpen(t *testing.T) {
	for _, c := range output.Codecs() {
		dst := &closeRecorder{}
		w, err := output.NewWriter(dst, c)
		require.NoError(t, err)
		_, err = w.Write([]byte("0\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.False(t, dst.closed, string(c))
		assert.NotZero(t, dst.Len(), string(c))
	}
}

func TestUnknownCodec(t *testing.T) {
	_, err := output.NewWriter(io.Discard, output.Codec("brotli"))
	assert.ErrorIs(t, err, output.ErrUnknownCodec)
	_, err = output.NewReader(bytes.NewReader(nil), output.Codec("brotli"))
	assert.ErrorIs(t, err, output.ErrUnknownCodec)

	tr, a := catCats(t)
	assert.ErrorIs(t, output.WriteATT(io.Discard, "brotli", tr, a), output.ErrUnknownCodec)
}

func TestWriteATT_NilTransducer(t *testing.T) {
	_, a := catCats(t)
	assert.ErrorIs(t, output.WriteATT(io.Discard, output.CodecGzip, nil, a), fst.ErrNilTransducer)
}

func TestCodecForPath(t *testing.T) {
	assert.Equal(t, output.CodecGzip, output.CodecForPath("out/lexicon.att.GZ"))
	assert.Equal(t, output.CodecZstd, output.CodecForPath("lexicon.att.zst"))
	assert.Equal(t, output.CodecZstd, output.CodecForPath("lexicon.zstd"))
	assert.Equal(t, output.CodecNone, output.CodecForPath("lexicon.att"))
	assert.Equal(t, output.CodecNone, output.CodecForPath("-"))
}
