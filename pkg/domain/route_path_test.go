package domain

import (
	"bytes"
	"testing"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutePath(t *testing.T) {
	tests := []struct {
		name     string
		route    *model.RouteInfo
		wantLen  int
		wantWarn bool
	}{
		{name: "no route", route: nil},
		{name: "empty geometry", route: &model.RouteInfo{DistanceMeters: 10}},
		{name: "valid geometry", route: &model.RouteInfo{EncodedPolyline: "_p~iF~ps|U_ulLnnqC"}, wantLen: 2},
		{name: "truncated geometry", route: &model.RouteInfo{EncodedPolyline: "_p~iF"}, wantWarn: true},
		{name: "invalid byte", route: &model.RouteInfo{EncodedPolyline: "_p~iF !"}, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			path := RoutePath(log.NewLogfmtLogger(&buf), tt.route)
			if tt.wantLen == 0 {
				assert.Nil(t, path)
			} else {
				require.Len(t, path, tt.wantLen)
			}
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "dropping route geometry")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestRoutePathWithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Nil(t, RoutePath(nil, &model.RouteInfo{EncodedPolyline: "_p~iF"}))
	})
}
