package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	infoColor         = color.New(color.FgHiBlack)
	warnColor         = color.New(color.FgHiYellow)
	errorColor        = color.New(color.FgHiRed)
	fatalColor        = color.New(color.FgHiRed, color.Bold)
	debugColor        = color.New(color.FgHiBlue)
	databaseColor     = color.New(color.FgHiBlack)
	voiceColor        = color.New(color.FgHiCyan)
	searchColor       = color.New(color.FgHiGreen)
	housekeepingColor = color.New(color.FgHiMagenta)
	rotatorColor      = color.New(color.FgHiMagenta)
	loaderColor       = color.New(color.FgHiBlue)

	IsSilent  = false
	LogToFile = false

	// Logger is the process-wide structured logger.
	Logger *slog.Logger

	logFile *os.File
	logMu   sync.Mutex

	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

func init() {
	InitLogger(false, false)
}

// InitLogger rebuilds the global logger. It returns the log file name when
// file output was requested and could be opened.
func InitLogger(silent bool, saveToFile bool) string {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var fileWriter io.Writer
	logName := ""
	if LogToFile {
		logName = GetProjectName() + ".log"
		f, err := os.OpenFile(filepath.Clean(logName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", logName, err)
			logName = ""
		} else {
			logFile = f
			fileWriter = &ansiStripper{w: f}
		}
	}

	color.NoColor = false

	handler := NewBotLogHandler(os.Stdout, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
		File:   fileWriter,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	return logName
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// CloseLogger flushes and closes the log file, if any.
func CloseLogger() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

// LogFatal logs at the fatal level and panics so deferred cleanup still runs.
// main recovers the panic and exits non-zero.
func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), LevelFatal, msg)
	panic(msg)
}

func LogDatabase(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "database"))
}

func LogVoice(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "voice"))
}

func LogSearch(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "search"))
}

func LogHousekeeping(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "housekeeping"))
}

func LogStatusRotator(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "status_rotator"))
}

func LogLoader(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "loader"))
}

// --- Custom Slog Handler ---

// LevelFatal sits above slog.LevelError.
const LevelFatal = slog.LevelError + 4

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
	// File, when set, receives every record in addition to the main writer.
	File io.Writer
}

type BotLogHandler struct {
	w     io.Writer
	opts  *BotLogHandlerOptions
	mu    *sync.Mutex
	attrs []slog.Attr
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *BotLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.opts.Silent && h.opts.File == nil {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(_ context.Context, r slog.Record) error {
	line := h.format(r)

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.opts.Silent {
		fmt.Fprint(h.w, line)
	}
	if h.opts.File != nil {
		fmt.Fprint(h.opts.File, line)
	}
	return nil
}

func (h *BotLogHandler) format(r slog.Record) string {
	timeStr := r.Time.Format("15:04:05")
	if r.Time.IsZero() {
		timeStr = time.Now().Format("15:04:05")
	}

	var levelStr string
	var levelColor *color.Color
	switch {
	case r.Level >= LevelFatal:
		levelStr, levelColor = "FATAL", fatalColor
	case r.Level >= slog.LevelError:
		levelStr, levelColor = "ERROR", errorColor
	case r.Level >= slog.LevelWarn:
		levelStr, levelColor = "WARN", warnColor
	case r.Level >= slog.LevelInfo:
		levelStr, levelColor = "INFO", infoColor
	default:
		levelStr, levelColor = "DEBUG", debugColor
	}

	component := ""
	var extra []string
	collect := func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return true
		}
		extra = append(extra, a.Key+"="+a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	msg := r.Message
	if len(extra) > 0 {
		msg += " " + strings.Join(extra, " ")
	}

	var b strings.Builder
	b.WriteString(timeStr)
	if component != "" {
		// Component lines keep the level tag isolated unless it is INFO.
		if levelStr != "INFO" {
			b.WriteString(" " + levelColor.Sprintf("[%s]", levelStr))
		}
		b.WriteString(" " + colorizeWithResets(getComponentColor(component), fmt.Sprintf("[%s] %s", component, msg)))
	} else {
		b.WriteString(" " + colorizeWithResets(levelColor, fmt.Sprintf("[%s] %s", levelStr, msg)))
	}
	b.WriteString("\n")
	return b.String()
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BotLogHandler{w: h.w, opts: h.opts, mu: h.mu, attrs: merged}
}

func (h *BotLogHandler) WithGroup(string) slog.Handler { return h }

func getComponentColor(name string) *color.Color {
	switch name {
	case "DATABASE":
		return databaseColor
	case "VOICE":
		return voiceColor
	case "SEARCH":
		return searchColor
	case "HOUSEKEEPING":
		return housekeepingColor
	case "STATUS_ROTATOR":
		return rotatorColor
	case "LOADER":
		return loaderColor
	default:
		return color.New(color.FgCyan)
	}
}

// colorizeWithResets re-applies the outer color after every reset code in text
// so nested coloring does not end the outer span early.
func colorizeWithResets(c *color.Color, text string) string {
	if !strings.Contains(text, "\x1b[0m") {
		return c.Sprint(text)
	}
	marker := "@@@MSG@@@"
	wrapped := c.Sprint(marker)
	idx := strings.Index(wrapped, marker)
	if idx <= 0 {
		return text
	}
	startSeq := wrapped[:idx]
	return c.Sprint(strings.ReplaceAll(text, "\x1b[0m", "\x1b[0m"+startSeq))
}

// ansiStripper removes color codes before bytes reach the log file.
type ansiStripper struct {
	w io.Writer
}

func (a *ansiStripper) Write(p []byte) (int, error) {
	if _, err := a.w.Write(ansiPattern.ReplaceAll(p, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}
