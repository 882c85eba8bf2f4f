package assets

import (
	"bufio"
	"context"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ErrNotImage is returned when a photo source does not contain image data.
var ErrNotImage = errors.New("not an image")

// IsURL reports whether src is an absolute http or https url.
func IsURL(src string) bool {
	u, err := url.ParseRequestURI(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LoadPhoto reads the captured photo from a file path or an http(s) url.
func LoadPhoto(ctx context.Context, src string) (image.Image, error) {
	if !IsURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open the photo")
		}
		defer f.Close()
		return DecodePhoto(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "invalid photo url")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to download the photo from %s", src)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unable to download the photo from %s, status %s", src, res.Status)
	}
	return DecodePhoto(res.Body)
}

// DecodePhoto decodes a photo from a stream, applying the EXIF orientation.
// Only the first 512 bytes are used to sniff the content type.
func DecodePhoto(r io.Reader) (image.Image, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if len(head) == 0 {
		if err == nil || err == io.EOF {
			return nil, errors.Wrap(ErrNotImage, "empty input")
		}
		return nil, errors.Wrap(err, "cannot read the photo")
	}

	// Formats the sniffer does not know come back as octet-stream and are
	// left for the decoder to judge.
	ctype := http.DetectContentType(head)
	if !strings.HasPrefix(ctype, "image/") && ctype != "application/octet-stream" {
		return nil, errors.Wrapf(ErrNotImage, "content type %s", ctype)
	}

	img, err := imaging.Decode(br, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the photo")
	}
	return img, nil
}
