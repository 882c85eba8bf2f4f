package stickr

import (
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultJPEGQuality is used when an encoder is asked for quality 0.
const DefaultJPEGQuality = 90

// ErrUnsupportedFormat is returned for output files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath returns the output format implied by the file extension.
// Paths without an extension and the "-" pipe name are encoded as JPEG.
func FormatFromPath(path string) (imaging.Format, error) {
	if path == "-" || filepath.Ext(path) == "" {
		return imaging.JPEG, nil
	}
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(path))
	}
	return f, nil
}

// Encode writes img to w. When w is a file the output format is taken from
// its extension, otherwise the image is encoded as JPEG.
func Encode(w io.Writer, img image.Image, quality int) error {
	format := imaging.JPEG
	if f, ok := w.(*os.File); ok && f != os.Stdout {
		var err error
		if format, err = FormatFromPath(f.Name()); err != nil {
			return err
		}
	}
	return EncodeFormat(w, img, format, quality)
}

// EncodeFormat writes img to w in the requested format.
func EncodeFormat(w io.Writer, img image.Image, format imaging.Format, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrapf(err, "cannot encode the image as %s", format)
	}
	return nil
}

// Save encodes img into the file at path, creating or truncating it.
func Save(path string, img image.Image, quality int) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create the output file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "cannot close the output file")
		}
	}()
	return EncodeFormat(f, img, format, quality)
}
