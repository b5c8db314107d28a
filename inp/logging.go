package inp

import (
	"log"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// InitLogFile opens a rank-suffixed log file next to the input
// configuration file (<basename>_p<rank>.log) and connects the
// standard logger to it.
func InitLogFile(inputPath string, rank int) (*os.File, error) {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	key := base[:len(base)-len(ext)]
	dir := filepath.Dir(inputPath)

	f, err := os.Create(filepath.Join(dir, io.Sf("%s_p%d.log", key, rank)))
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}

// FlushLog closes the log file opened by InitLogFile.
func FlushLog(f *os.File) {
	if f != nil {
		f.Close()
	}
}
