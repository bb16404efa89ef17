package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/dungeonforge/pkg/config"
	"github.com/matzehuels/dungeonforge/pkg/observability"
)

// newLogger creates the CLI logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newLogFile returns a size-rotated log file writer configured from cfg.
func newLogFile(path string, cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

// teeLogFile sends log output to the terminal and to a rotating file at path.
// The file is closed by teardown.
func (c *CLI) teeLogFile(path string, cfg config.LogConfig) {
	lf := newLogFile(path, cfg)
	c.Logger.SetOutput(io.MultiWriter(c.out, lf))
	c.logCloser = lf
}

// stage times one step of a command and logs it with structured fields.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug(name + " started")
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage name, keyvals and the elapsed time at info level.
func (s *stage) done(keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name, keyvals...)
}

type ctxKey struct{}

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline events through a logger. Failures log at warn.
type logHooks struct {
	logger *log.Logger
}

var _ observability.PipelineHooks = logHooks{}

func (h logHooks) OnGenerateStart(_ context.Context, width, height int) {
	h.logger.Debug("generate started", "width", width, "height", height)
}

func (h logHooks) OnGenerateComplete(_ context.Context, rooms int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("generate failed", "err", err, "elapsed", d)
		return
	}
	h.logger.Debug("generate finished", "rooms", rooms, "elapsed", d)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err, "elapsed", d)
		return
	}
	h.logger.Debug("render finished", "formats", formats, "elapsed", d)
}
