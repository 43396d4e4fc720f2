package logger

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	require.NoError(t, Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestInitLoggerWritesJSONAndHonoursLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&config.LogConfig{Level: "warn", Filename: path, MaxSize: 1})

	Info("dropped")
	Warnf("kept %d", 1)
	SetLevel("info")
	assert.Equal(t, zapcore.InfoLevel, Level())
	Infof("kept %d", 2)

	lines := readLines(t, path)
	var msgs []string
	for _, line := range lines {
		msgs = append(msgs, line["msg"].(string))
	}
	assert.NotContains(t, msgs, "dropped")
	assert.Contains(t, msgs, "kept 1")
	assert.Contains(t, msgs, "kept 2")
}

func TestGinLoggerRecordsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "access.log")
	InitLogger(&config.LogConfig{Level: "info", Filename: path, MaxSize: 1})

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(RequestIDKey, "req-42") })
	r.Use(GinLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	lines := readLines(t, path)
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.Equal(t, "req-42", last["request_id"])
	assert.Equal(t, float64(http.StatusNoContent), last["status"])
	assert.Equal(t, "x=1", last["query"])
}
