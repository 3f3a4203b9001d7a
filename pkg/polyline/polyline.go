// Package polyline implements the encoded polyline format returned by the
// routing backends: signed deltas in 1e-5 degree units, zig-zag encoded and
// split into 5-bit groups, each group stored as an ASCII byte offset by 63.
package polyline

import (
	"math"
	"strings"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/pkg/errors"
)

const (
	precision = 1e5

	offset       = 63
	groupMask    = 0x1f
	continuation = 0x20
	// 32 bits of payload take at most 7 groups.
	maxShift = 35
)

var ErrMalformedPolyline = errors.New("malformed polyline")

// Decode turns an encoded polyline into its coordinates. Decoding never reads
// past the end of the input; truncated or otherwise invalid input fails with
// ErrMalformedPolyline.
func Decode(encoded string) ([]model.Coordinate, error) {
	var (
		path     []model.Coordinate
		index    int
		lat, lng int64
	)
	for index < len(encoded) {
		deltaLat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, errors.Wrapf(err, "latitude at offset %d", index)
		}
		if next >= len(encoded) {
			return nil, errors.Wrapf(ErrMalformedPolyline, "missing longitude at offset %d", next)
		}
		deltaLng, end, err := decodeValue(encoded, next)
		if err != nil {
			return nil, errors.Wrapf(err, "longitude at offset %d", next)
		}
		index = end
		lat += deltaLat
		lng += deltaLng
		path = append(path, model.Coordinate{
			Latitude:  float64(lat) / precision,
			Longitude: float64(lng) / precision,
		})
	}
	return path, nil
}

// decodeValue reads one zig-zag encoded value starting at index and returns it
// together with the index of the following byte.
func decodeValue(encoded string, index int) (int64, int, error) {
	var (
		result uint64
		shift  uint
	)
	for {
		if index >= len(encoded) {
			return 0, index, errors.Wrap(ErrMalformedPolyline, "unterminated group")
		}
		c := encoded[index]
		if c < offset || c > offset+0x3f {
			return 0, index, errors.Wrapf(ErrMalformedPolyline, "invalid byte %q", c)
		}
		if shift >= maxShift {
			return 0, index, errors.Wrap(ErrMalformedPolyline, "value overflow")
		}
		b := uint64(c - offset)
		index++
		result |= (b & groupMask) << shift
		shift += 5
		if b < continuation {
			break
		}
	}
	if result&1 != 0 {
		return ^int64(result >> 1), index, nil
	}
	return int64(result >> 1), index, nil
}

// Encode is the inverse of Decode. Coordinates are rounded to 1e-5 degrees.
func Encode(path []model.Coordinate) string {
	var (
		sb       strings.Builder
		lat, lng int64
	)
	for _, c := range path {
		nextLat := int64(math.Round(c.Latitude * precision))
		nextLng := int64(math.Round(c.Longitude * precision))
		encodeValue(&sb, nextLat-lat)
		encodeValue(&sb, nextLng-lng)
		lat, lng = nextLat, nextLng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= continuation {
		sb.WriteByte(byte((u&groupMask)|continuation) + offset)
		u >>= 5
	}
	sb.WriteByte(byte(u) + offset)
}
