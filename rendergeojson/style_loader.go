package rendergeojson

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

type StyleReader interface {
	ReadStyle(root *styling.Element) errorsx.Error
}

// LoadStyle reads the style document at styleLocalPath and applies it to the layer
func LoadStyle(fs gofs.Fs, layer StyleReader, styleLocalPath string) errorsx.Error {
	file, err := fs.Open(styleLocalPath)
	if err != nil {
		return errorsx.Wrap(err, "path", styleLocalPath)
	}
	defer file.Close()

	root, xErr := styling.ReadDocument(file)
	if xErr != nil {
		return errorsx.Wrap(xErr, "path", styleLocalPath)
	}

	xErr = layer.ReadStyle(root)
	if xErr != nil {
		return errorsx.Wrap(xErr, "path", styleLocalPath)
	}

	return nil
}
