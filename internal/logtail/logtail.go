package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Tail returns the last n lines of the log file at path whose level is at
// least as severe as min. Lines without a level= field (continuations,
// foreign output) are always kept. A missing file yields no lines. n <= 0
// means no limit.
func Tail(path string, n int, min logrus.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	return tail(file, n, min)
}

func tail(r io.Reader, n int, min logrus.Level) ([]string, error) {
	var kept ring
	if n > 0 {
		kept.buf = make([]string, n)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if lvl, ok := LineLevel(line); ok && lvl > min {
			continue
		}
		kept.push(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return kept.lines(), nil
}

// LineLevel extracts the level of a logrus text-formatted line.
func LineLevel(line string) (logrus.Level, bool) {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return 0, false
	}
	value := line[idx+len("level="):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	lvl, err := logrus.ParseLevel(strings.Trim(value, `"`))
	if err != nil {
		return 0, false
	}
	return lvl, true
}

// ring keeps the most recent len(buf) lines, or every line when buf is nil.
type ring struct {
	buf   []string
	all   []string
	next  int
	count int
}

func (r *ring) push(line string) {
	if r.buf == nil {
		r.all = append(r.all, line)
		return
	}
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring) lines() []string {
	if r.buf == nil {
		return r.all
	}
	out := make([]string, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
		return out
	}
	for i := range out {
		out[i] = r.buf[(r.next+i)%len(r.buf)]
	}
	return out
}
