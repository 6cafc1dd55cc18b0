package pinlib_test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/stretchr/testify/mock"
)

type IPLocatorMock struct {
	mock.Mock
}

func (m *IPLocatorMock) Name() string {
	return m.Called().String(0)
}

func (m *IPLocatorMock) LookupIP(ctx context.Context, ip string) (pinlib.IPLocation, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(pinlib.IPLocation), args.Error(1)
}

type GeocoderMock struct {
	mock.Mock
}

func (m *GeocoderMock) Name() string {
	return m.Called().String(0)
}

func (m *GeocoderMock) Search(ctx context.Context, query string) ([]pinlib.Place, error) {
	args := m.Called(ctx, query)

	return args.Get(0).([]pinlib.Place), args.Error(1)
}

func (m *GeocoderMock) Reverse(ctx context.Context, lat, lon float64) (pinlib.Place, error) {
	args := m.Called(ctx, lat, lon)

	return args.Get(0).(pinlib.Place), args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(kind pinlib.SourceKind, value string, err error) {
	m.Called(kind, value, err)
}

func (m *LoggerMock) EnrichError(lat, lon float64, err error) {
	m.Called(lat, lon, err)
}

func (m *LoggerMock) SessionInfo(sessionID, msg string) {
	m.Called(sessionID, msg)
}

func floatPtr(value float64) *float64 {
	return &value
}

func newMocks() (*IPLocatorMock, *GeocoderMock, *LoggerMock) {
	ipLocator := &IPLocatorMock{}
	geocoder := &GeocoderMock{}
	logger := &LoggerMock{}

	ipLocator.On("Name").Return("ipMock").Maybe()
	geocoder.On("Name").Return("geocoderMock").Maybe()
	logger.On("LookupError", mock.Anything, mock.Anything, mock.Anything).Maybe()
	logger.On("EnrichError", mock.Anything, mock.Anything, mock.Anything).Maybe()
	logger.On("SessionInfo", mock.Anything, mock.Anything).Maybe()

	return ipLocator, geocoder, logger
}

func decodeJSON(resp *http.Response, value interface{}) error {
	return json.NewDecoder(resp.Body).Decode(value)
}
