package ownmapdal

import (
	"os"

	"github.com/jamesrr39/goutil/errorsx"
)

type PathsConfig struct {
	// LocalPrefixDir is looked in first when resolving a file reference. Empty means every reference is downloaded.
	LocalPrefixDir string
	// TempDir receives downloaded files. They are removed when the request is done with them.
	TempDir  string
	TraceDir string
}

func (pc *PathsConfig) EnsurePaths() errorsx.Error {
	for _, dirPath := range []string{pc.TempDir, pc.TraceDir} {
		if dirPath == "" {
			continue
		}
		err := os.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err, "path", dirPath)
		}
	}

	return nil
}
