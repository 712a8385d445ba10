package fetch

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/charmap"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
)

// Decode reads a playlist body and returns it as UTF-8 text.
// gzip, bzip2 and xz bodies are detected by magic bytes and decompressed.
// A UTF-8 BOM is stripped; bytes that are not valid UTF-8 are decoded as
// Windows-1252, which covers the Latin-1 playlists still in the wild.
// The size cap applies to the decompressed text.
func Decode(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("read playlist: %w", err)
	}

	var body io.Reader = br
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		body = gz
	case bytes.HasPrefix(header, bzip2Magic):
		body = bzip2.NewReader(br)
	case bytes.HasPrefix(header, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("open xz stream: %w", err)
		}
		body = xr
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxPlaylistSize+1))
	if err != nil {
		return "", fmt.Errorf("read playlist: %w", err)
	}
	if len(data) > MaxPlaylistSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxPlaylistSize)
	}
	return toUTF8(data)
}

func toUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(decoded), nil
}
