package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

func CompressLz4(src []byte, output *bytes.Buffer) error {
	zw := lz4.NewWriter(output)

	_, writeErr := zw.Write(src)
	if writeErr != nil {
		return writeErr
	}

	flushErr := zw.Flush()
	if flushErr != nil {
		return flushErr
	}

	return zw.Close()
}

func DecompressLz4(src []byte, out []byte) (int, error) {
	zr := lz4.NewReader(bytes.NewReader(src))

	readBytes, err := io.ReadFull(zr, out)
	if err != nil && err != io.ErrUnexpectedEOF {
		return readBytes, fmt.Errorf("unable to decompress block : %s", err.Error())
	}

	return readBytes, nil
}
