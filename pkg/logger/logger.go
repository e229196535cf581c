// Package logger holds the process-wide leveled logger. It is the same
// gommon logger echo uses, so request logs and application logs share one
// format and level.
package logger

import (
	"strings"

	"github.com/labstack/gommon/log"
	gormlogger "gorm.io/gorm/logger"
)

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

var l = log.New("zombie-defense")

func init() {
	l.SetHeader(header)
}

func Init(level string) {
	l.SetLevel(parseLevel(level))
}

func Get() *log.Logger {
	return l
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// GormLevel maps the application level onto gorm's logger so SQL is only
// printed in debug mode.
func GormLevel(level string) gormlogger.LogLevel {
	switch parseLevel(level) {
	case log.DEBUG:
		return gormlogger.Info
	case log.INFO, log.WARN:
		return gormlogger.Warn
	case log.OFF:
		return gormlogger.Silent
	default:
		return gormlogger.Error
	}
}

func Debugf(format string, args ...interface{}) { l.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { l.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { l.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { l.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { l.Fatalf(format, args...) }
