package common

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logOutput = &buf
	defer func() { logOutput = os.Stdout }()

	l := CreateLogger("search")
	l.Debugf("hidden")
	l.Infof("hello %d", 1)
	l.SetLevel(logger.DEBUG)
	l.Debugf("shown")
	l.SetLevel(logger.ERROR)
	l.Warningf("hidden")

	out := buf.String()
	if !strings.Contains(out, "INFO  | search          | hello 1") {
		t.Errorf("unexpected info line:\n%s", out)
	}
	if !strings.Contains(out, "DEBUG | search          | shown") {
		t.Errorf("unexpected debug line:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level were written:\n%s", out)
	}
}
