package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Process-wide structured logging, per the AMBIENT STACK's
 *		logging entry.
 *
 * Description:	Replaces the teacher's log.go (CSV logging of heard
 *		AX.25/APRS stations -- irrelevant here, RyFi carries no
 *		station/callsign concept) with charmbracelet/log: one
 *		logger per subsystem, each with its own Prefix, the same
 *		role the teacher's dw_printf/text_color_set calls play but
 *		through a real structured-logging library already in the
 *		dependency graph.
 *
 *------------------------------------------------------------------*/

import "github.com/charmbracelet/log"

// NewLogger derives a subsystem logger from the process-wide default
// logger, identified by prefix in every line it emits -- the same
// log.Default().WithPrefix(...) pattern queue.go uses directly.
func NewLogger(prefix string) *log.Logger {
	return log.Default().WithPrefix(prefix)
}

// SetLevel adjusts the process-wide default logger's level.
func SetLevel(level log.Level) {
	log.SetLevel(level)
}
