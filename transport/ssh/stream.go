package ssh

import (
	"bytes"
	"io"
)

// crlfWriter - turns \n into \r\n for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (that *crlfWriter) Write(p []byte) (int, error) {
	if _, err := that.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}

	return len(p), nil
}

// echoReader - echoes what the player types and maps \r to \n so lines can be scanned.
type echoReader struct {
	r io.Reader
	w io.Writer
}

func (that *echoReader) Read(p []byte) (int, error) {
	n, err := that.r.Read(p)

	for i := 0; i < n; i++ {
		if p[i] == '\r' {
			p[i] = '\n'
		}
	}

	if n > 0 {
		if _, werr := that.w.Write(p[:n]); werr != nil && err == nil {
			err = werr
		}
	}

	return n, err
}
