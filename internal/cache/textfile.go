package cache

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// textFile is an opened, possibly gzip-compressed, line-oriented input.
type textFile struct {
	*bufio.Scanner
	f  *os.File
	gz *gzip.Reader
}

// openText opens path for line scanning. Files ending in .gz are
// decompressed. maxLine bounds the longest accepted line.
func openText(path string, maxLine int) (*textFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tf := &textFile{f: f}

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		tf.gz = gz
		r = gz
	}
	tf.Scanner = newScanner(r, maxLine)
	return tf, nil
}

func newScanner(r io.Reader, maxLine int) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return s
}

func (tf *textFile) Close() error {
	if tf.gz != nil {
		tf.gz.Close()
	}
	return tf.f.Close()
}
