package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockroom.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTail_LastLines(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("Line %d", i))
	}
	path := writeLog(t, all)

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"unlimited (0)", 0, all},
		{"unlimited (negative)", -1, all},
		{"partial", 5, all[5:]},
		{"exact", 10, all},
		{"more than exists", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.n, logrus.TraceLevel)
			if err != nil {
				t.Fatalf("Tail: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tail = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTail_FiltersByLevel(t *testing.T) {
	path := writeLog(t, []string{
		`time="2026-01-02T10:00:00Z" level=debug msg="api request" op=list`,
		`time="2026-01-02T10:00:01Z" level=info msg="mutation settled" mutation=create`,
		`time="2026-01-02T10:00:02Z" level=warning msg="api request rejected" status=500`,
		`panic: something odd`,
		`time="2026-01-02T10:00:03Z" level=error msg="ui exited"`,
	})

	got, err := Tail(path, 0, logrus.WarnLevel)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	want := []string{
		`time="2026-01-02T10:00:02Z" level=warning msg="api request rejected" status=500`,
		`panic: something odd`,
		`time="2026-01-02T10:00:03Z" level=error msg="ui exited"`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail = %v, want %v", got, want)
	}

	got, err = Tail(path, 1, logrus.WarnLevel)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "ui exited") {
		t.Fatalf("Tail(1) = %v", got)
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10, logrus.InfoLevel)
	if err != nil || got != nil {
		t.Fatalf("Tail missing = %v, %v; want nil, nil", got, err)
	}
}

func TestLineLevel(t *testing.T) {
	cases := []struct {
		line string
		want logrus.Level
		ok   bool
	}{
		{`level=info msg=x`, logrus.InfoLevel, true},
		{`time=now level=warning`, logrus.WarnLevel, true},
		{`level="error" msg=x`, logrus.ErrorLevel, true},
		{`level=shouty msg=x`, 0, false},
		{`no level here`, 0, false},
	}
	for _, tc := range cases {
		got, ok := LineLevel(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("LineLevel(%q) = %v, %v; want %v, %v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}
