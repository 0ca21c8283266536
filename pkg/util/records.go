package util

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// MaxRecordSize is the longest line ReadRecords accepts.
const MaxRecordSize = 16 * 1024 * 1024

// SplitRecords splits newline separated text into records, one per line.
// A final newline ends the last record instead of starting an empty one, as
// ReadRecords does.
func SplitRecords(text string, skipBlank bool) [][]byte {
	records := make([][]byte, 0)
	if text == "" {
		return records
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if skipBlank && strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, []byte(line))
	}
	return records
}

// ReadRecords reads one record per line from r. Line endings are stripped but
// the rest of each line is kept byte for byte.
func ReadRecords(r io.Reader, skipBlank bool) ([][]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxRecordSize)

	records := make([][]byte, 0)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if skipBlank && len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		record := make([]byte, len(b))
		copy(record, b)
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read record after line %d", line)
	}
	return records, nil
}

// ReadRecordsFile reads records from the file at path.
func ReadRecordsFile(path string, skipBlank bool) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open records file")
	}
	defer func() { _ = f.Close() }()

	records, err := ReadRecords(f, skipBlank)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read records from %s", path)
	}
	return records, nil
}
