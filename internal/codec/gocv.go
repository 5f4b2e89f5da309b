package codec

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GoCVCodec implements Codec with OpenCV via gocv.
type GoCVCodec struct{}

// NewGoCVCodec returns the OpenCV-backed codec.
func NewGoCVCodec() *GoCVCodec {
	return &GoCVCodec{}
}

// Decode decodes a JPEG payload, records its original dimensions, resizes
// to the target and converts BGR to packed RGB bytes.
func (c *GoCVCodec) Decode(encoded []byte, targetWidth, targetHeight int) ([]byte, int, int, error) {
	mat, err := gocv.IMDecode(encoded, gocv.IMReadColor)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, 0, 0, fmt.Errorf("%w: empty image", ErrDecode)
	}

	origWidth := mat.Cols()
	origHeight := mat.Rows()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(targetWidth, targetHeight), 0, 0, gocv.InterpolationLinear)

	rgb := gocv.NewMat()
	defer rgb.Close()
	if err := gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	data := rgb.ToBytes()
	out := make([]byte, len(data))
	copy(out, data)

	return out, origWidth, origHeight, nil
}
