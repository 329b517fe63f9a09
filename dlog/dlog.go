package dlog

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type dWriter struct {
	out io.Writer
}

// RdsClientToLog, when set, receives a copy of every log line in a sorted set
var RdsClientToLog *redis.Client = nil

func (dr dWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if RdsClientToLog != nil && level >= zerolog.InfoLevel {
		key := "newsroomlog:" + getMachineName()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		RdsClientToLog.ZAdd(ctx, key, redis.Z{Score: float64(time.Now().UnixNano()), Member: string(p)})
		cancel()
	}
	return dr.Write(p)
}
func (dr dWriter) Write(p []byte) (n int, err error) {
	_, err = dr.out.Write(p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

var Logger = zerolog.New(dWriter{out: os.Stdout}).With().Timestamp().Logger()

// SetOutput redirects the logger, used by tests to capture or silence output
func SetOutput(w io.Writer) {
	Logger = zerolog.New(dWriter{out: w}).With().Timestamp().Logger()
}

func SetLevel(level int8) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}
func Info() *zerolog.Event {
	return Logger.Info()
}
func Warn() *zerolog.Event {
	return Logger.Warn()
}
func Error() *zerolog.Event {
	return Logger.Error()
}
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}
func Panic() *zerolog.Event {
	return Logger.Panic()
}
func Log() *zerolog.Event {
	return Logger.Log()
}
