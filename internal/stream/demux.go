package stream

// The wheelchair camera serves a multipart MJPEG stream: every frame is
// preceded by the same boundary marker, and the JPEG bytes run until the
// next marker. The demultiplexer reassembles that framing from arbitrarily
// split network chunks.

// BoundaryMarker delimits successive frames in the camera stream.
const BoundaryMarker = "--frame\r\nContent-Type: image/jpeg\r\n\r\n"

// MinFrameSize is the plausibility floor for an extracted payload. Anything
// shorter between two markers is header noise, not a JPEG, and is dropped.
const MinFrameSize = 500

// Demux turns raw stream chunks into complete JPEG frame payloads.
// Single-owner, like the ring buffer underneath it.
type Demux struct {
	ring   *RingBuffer
	marker []byte
}

// NewDemux creates a demultiplexer over a fresh ring buffer.
func NewDemux() *Demux {
	marker := []byte(BoundaryMarker)
	return &Demux{
		ring:   NewRingBuffer(marker),
		marker: marker,
	}
}

// Feed appends one network chunk and returns every frame payload completed
// by it, in stream order. A nil return means no complete frame is buffered
// yet; the caller simply feeds the next chunk. Payloads are copies and
// remain valid after further feeds.
func (d *Demux) Feed(chunk []byte) [][]byte {
	d.ring.Append(chunk)

	var frames [][]byte
	for {
		start := d.ring.Index(d.marker, 0)
		if start < 0 {
			return frames
		}
		next := d.ring.Index(d.marker, start+len(d.marker))
		if next < 0 {
			// Current frame still incomplete; await more data.
			return frames
		}
		payload := d.ring.Range(start+len(d.marker), next)
		if len(payload) > MinFrameSize {
			frames = append(frames, payload)
		}
		d.ring.DiscardPrefix(next)
	}
}

// Buffered reports how many bytes are waiting for a closing marker.
func (d *Demux) Buffered() int {
	return d.ring.Len()
}
