package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/vnykmshr/fsqueue"
)

// inertProcessor never consumes a file; administrative commands use it
// so opening a queue for inspection never drains its backlog.
type inertProcessor struct{}

func (inertProcessor) OnFileReady(fsqueue.SealedFile, time.Time) fsqueue.FileProcessingResult {
	return fsqueue.Unavailable
}

func openAdminQueue(dir string) (*fsqueue.Queue, error) {
	return fsqueue.Open(dir, inertProcessor{},
		fsqueue.WithPurgeBounds(viper.GetUint64("max_total_bytes"), viper.GetInt("max_file_count")),
		fsqueue.WithQuarantineDir(viper.GetString("quarantine_dir")),
		fsqueue.WithDetachWorkerOnTerminate(true),
	)
}
