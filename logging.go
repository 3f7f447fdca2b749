package toyourface

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

// InitLogging routes the plugin's diagnostics to w. The host process has
// no console, so the usual destination is a file next to the other plugin
// logs. debug lowers the level so per-greeting traces show up.
func InitLogging(w io.Writer, debug bool) {
	log.SetHandler(text.New(w))
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// OpenLogFile truncates and opens the plugin log. Each launch starts a
// fresh file.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}
