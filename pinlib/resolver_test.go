package pinlib_test

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite

	ipLocatorMock *IPLocatorMock
	geocoderMock  *GeocoderMock
	loggerMock    *LoggerMock
	r             *pinlib.Resolver
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.ipLocatorMock = &IPLocatorMock{}
	suite.geocoderMock = &GeocoderMock{}
	suite.loggerMock = &LoggerMock{}

	suite.ipLocatorMock.On("Name").Return("ipMock").Maybe()
	suite.geocoderMock.On("Name").Return("geocoderMock").Maybe()

	suite.r = pinlib.NewResolver(suite.ipLocatorMock, suite.geocoderMock, suite.loggerMock)
}

func (suite *ResolverTestSuite) TearDownTest() {
	suite.ipLocatorMock.AssertExpectations(suite.T())
	suite.geocoderMock.AssertExpectations(suite.T())
	suite.loggerMock.AssertExpectations(suite.T())
}

func (suite *ResolverTestSuite) TestIPOk() {
	suite.ipLocatorMock.On("LookupIP", mock.Anything, "8.8.8.8").Return(pinlib.IPLocation{
		Status:    "success",
		Latitude:  floatPtr(39.03),
		Longitude: floatPtr(-77.5),
		City:      "Ashburn",
		Region:    "Virginia",
		Country:   "United States",
		ISP:       "Google LLC",
	}, nil).Once()

	point, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceIP,
		Value: "8.8.8.8",
	})

	suite.NoError(err)
	suite.Equal(pinlib.SourceIP, point.SourceKind)
	suite.Equal("8.8.8.8", point.SourceValue)
	suite.Equal(39.03, point.Latitude)
	suite.Equal(-77.5, point.Longitude)
	suite.Equal("Ashburn", point.City)
	suite.Equal("Google LLC", point.ISP)
	suite.Empty(point.Name)
	suite.Require().NotNil(point.CountryCode)
	suite.Equal("US", point.CountryCode.Alpha2Code)
}

func (suite *ResolverTestSuite) TestIPStatusFail() {
	suite.ipLocatorMock.On("LookupIP", mock.Anything, "999.1.1.1").Return(pinlib.IPLocation{
		Status:  "fail",
		Message: "invalid query",
	}, nil).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceIP, "999.1.1.1", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceIP,
		Value: "999.1.1.1",
	})

	suite.True(errors.Is(err, pinlib.ErrIPLookupFailed))
	suite.Contains(err.Error(), "invalid query")
}

func (suite *ResolverTestSuite) TestIPNoCoordinates() {
	suite.ipLocatorMock.On("LookupIP", mock.Anything, "10.0.0.1").Return(pinlib.IPLocation{
		Status: "success",
	}, nil).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceIP, "10.0.0.1", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceIP,
		Value: "10.0.0.1",
	})

	suite.True(errors.Is(err, pinlib.ErrIPLookupFailed))
	suite.True(errors.Is(err, pinlib.ErrMalformedResponse))
}

func (suite *ResolverTestSuite) TestIPTimeout() {
	suite.ipLocatorMock.On("LookupIP", mock.Anything, "8.8.8.8").
		Return(pinlib.IPLocation{}, pinlib.ErrNetworkTimeout).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceIP, "8.8.8.8", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceIP,
		Value: "8.8.8.8",
	})

	suite.True(errors.Is(err, pinlib.ErrIPLookupFailed))
	suite.True(errors.Is(err, pinlib.ErrNetworkTimeout))

	resErr := &pinlib.ResolutionError{}

	suite.Require().True(errors.As(err, &resErr))
	suite.Equal(504, resErr.StatusCode())
}

func (suite *ResolverTestSuite) TestCityOk() {
	suite.geocoderMock.On("Search", mock.Anything, "Tokyo Tower").Return([]pinlib.Place{
		{
			Latitude:    "35.6585805",
			Longitude:   "139.7454329",
			DisplayName: "Tokyo Tower, Minato, Tokyo, Japan",
		},
		{
			Latitude:    "0",
			Longitude:   "0",
			DisplayName: "Somewhere else",
		},
	}, nil).Once()

	point, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceCityName,
		Value: "Tokyo Tower",
	})

	suite.NoError(err)
	suite.Equal(pinlib.SourceCityName, point.SourceKind)
	suite.Equal("Tokyo Tower", point.SourceValue)
	suite.Equal(35.6585805, point.Latitude)
	suite.Equal(139.7454329, point.Longitude)
	suite.Equal("Tokyo Tower, Minato, Tokyo, Japan", point.DisplayAddress)
}

func (suite *ResolverTestSuite) TestCityNoDisplayName() {
	suite.geocoderMock.On("Search", mock.Anything, "Osaka").Return([]pinlib.Place{
		{Latitude: "34.69", Longitude: "135.50"},
	}, nil).Once()

	point, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceCityName,
		Value: "Osaka",
	})

	suite.NoError(err)
	suite.Equal("Osaka", point.DisplayAddress)
}

func (suite *ResolverTestSuite) TestCityEmpty() {
	suite.geocoderMock.On("Search", mock.Anything, "Xyzzyville123").
		Return([]pinlib.Place{}, nil).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceCityName, "Xyzzyville123", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceCityName,
		Value: "Xyzzyville123",
	})

	suite.True(errors.Is(err, pinlib.ErrPlaceNotFound))
	suite.Contains(err.Error(), "Xyzzyville123")
}

func (suite *ResolverTestSuite) TestCityFailed() {
	suite.geocoderMock.On("Search", mock.Anything, "Tokyo").
		Return([]pinlib.Place(nil), io.EOF).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceCityName, "Tokyo", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceCityName,
		Value: "Tokyo",
	})

	suite.True(errors.Is(err, pinlib.ErrPlaceNotFound))
	suite.True(errors.Is(err, io.EOF))
}

func (suite *ResolverTestSuite) TestCityBadCoordinates() {
	suite.geocoderMock.On("Search", mock.Anything, "Tokyo").Return([]pinlib.Place{
		{Latitude: "north", Longitude: "139.7"},
	}, nil).Once()
	suite.loggerMock.On("LookupError", pinlib.SourceCityName, "Tokyo", mock.Anything).Once()

	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceCityName,
		Value: "Tokyo",
	})

	suite.True(errors.Is(err, pinlib.ErrPlaceNotFound))
	suite.True(errors.Is(err, pinlib.ErrMalformedResponse))
}

func (suite *ResolverTestSuite) TestCoordinateOk() {
	testData := []pinlib.Coordinate{
		{Latitude: 35.6812, Longitude: 139.7671},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 0, Longitude: 0},
	}

	for _, v := range testData {
		point, err := suite.r.Resolve(context.Background(), pinlib.Query{
			Kind:      pinlib.SourceCoordinate,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
		})

		suite.NoError(err)
		suite.Equal(v, point.Coordinate())
		suite.Equal(pinlib.SourceCoordinate, point.SourceKind)
	}
}

func (suite *ResolverTestSuite) TestCoordinateOutOfRange() {
	testData := []pinlib.Coordinate{
		{Latitude: 91, Longitude: 0},
		{Latitude: -90.0001, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -180.5},
		{Latitude: math.NaN(), Longitude: 0},
	}

	suite.loggerMock.On("LookupError", pinlib.SourceCoordinate, mock.Anything, mock.Anything).
		Times(len(testData))

	for _, v := range testData {
		_, err := suite.r.Resolve(context.Background(), pinlib.Query{
			Kind:      pinlib.SourceCoordinate,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
		})

		suite.True(errors.Is(err, pinlib.ErrOutOfRange))
	}
}

func (suite *ResolverTestSuite) TestUnknownKind() {
	_, err := suite.r.Resolve(context.Background(), pinlib.Query{
		Kind:  pinlib.SourceKind(42),
		Value: "x",
	})

	suite.True(errors.Is(err, pinlib.ErrInvalidInput))
}

func (suite *ResolverTestSuite) TestEnrichOk() {
	suite.geocoderMock.On("Reverse", mock.Anything, 35.6812, 139.7671).Return(pinlib.Place{
		DisplayName: "Tokyo Station",
	}, nil).Once()

	suite.Equal("Tokyo Station", suite.r.Enrich(context.Background(), 35.6812, 139.7671))
}

func (suite *ResolverTestSuite) TestEnrichFailed() {
	suite.geocoderMock.On("Reverse", mock.Anything, 0.0, -150.0).
		Return(pinlib.Place{}, pinlib.ErrNetworkTimeout).Once()
	suite.loggerMock.On("EnrichError", 0.0, -150.0, mock.Anything).Once()

	suite.Equal(pinlib.AddressUnavailable, suite.r.Enrich(context.Background(), 0, -150))
}

func (suite *ResolverTestSuite) TestEnrichNoDisplayName() {
	suite.geocoderMock.On("Reverse", mock.Anything, 0.0, -150.0).
		Return(pinlib.Place{}, nil).Once()
	suite.loggerMock.On("EnrichError", 0.0, -150.0, mock.Anything).Once()

	suite.Equal(pinlib.AddressUnavailable, suite.r.Enrich(context.Background(), 0, -150))
}

func TestResolver(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{})
}
