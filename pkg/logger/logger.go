package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	infoLog  = log.New(os.Stdout, "INFO: ", log.LstdFlags|log.Lshortfile)
	warnLog  = log.New(os.Stdout, "WARN: ", log.LstdFlags|log.Lshortfile)
	errorLog = log.New(os.Stderr, "ERROR: ", log.LstdFlags|log.Lshortfile)
	debugLog = log.New(os.Stdout, "DEBUG: ", log.LstdFlags|log.Lshortfile)

	debugEnabled = os.Getenv("ENVIRONMENT") == "development"
)

// calldepth 2 attributes the log line to the caller, not this wrapper.

func Info(format string, v ...interface{}) {
	infoLog.Output(2, fmt.Sprintf(format, v...))
}

func Warn(format string, v ...interface{}) {
	warnLog.Output(2, fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	errorLog.Output(2, fmt.Sprintf(format, v...))
}

// Debug logs only in development.
func Debug(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	debugLog.Output(2, fmt.Sprintf(format, v...))
}
