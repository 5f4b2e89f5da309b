// Package codec wraps image decoding and resizing behind a small interface
// so the detection pipeline can treat it as a black box.
package codec

import "errors"

// ErrDecode marks a payload that could not be decoded as an image. The
// pipeline skips such frames and keeps going.
var ErrDecode = errors.New("image decode failed")

// Codec decodes an encoded still image and resizes it to the requested
// dimensions, returning packed RGB bytes (row-major, 3 bytes per pixel)
// along with the original image dimensions.
type Codec interface {
	Decode(encoded []byte, targetWidth, targetHeight int) (rgb []byte, origWidth, origHeight int, err error)
}
