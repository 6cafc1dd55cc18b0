package pinlib

import (
	"fmt"
	"net/http"
	"strconv"
)

func (h httpHandler) handleLocate(w http.ResponseWriter, req *http.Request, sess *Session) {
	params := req.URL.Query()

	kind, err := ParseSourceKind(params.Get("kind"))
	if err != nil {
		h.sendError(w, err, "Incorrect kind of the query", http.StatusBadRequest)

		return
	}

	query := Query{
		Kind:  kind,
		Value: params.Get("value"),
	}

	if kind == SourceCoordinate {
		query.Latitude, query.Longitude, err = handleLocateCoordinates(params.Get("lat"), params.Get("lon"))
		if err != nil {
			h.sendError(w, err, "Incorrect coordinates", http.StatusBadRequest)

			return
		}
	} else if query.Value == "" {
		h.sendError(w, nil, "Value is required", http.StatusBadRequest)

		return
	}

	point, err := h.pinmap.Locate(req.Context(), sess, query)
	if err != nil {
		h.sendError(w, err, "Cannot locate a point", 0)

		return
	}

	h.encodeJSON(w, http.StatusOK, resultResponse{
		Result: point,
		Render: BuildLocateRenderRequest(point),
	})
}

func handleLocateCoordinates(lat, lon string) (float64, float64, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: incorrect latitude: %v", ErrInvalidInput, err)
	}

	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: incorrect longitude: %v", ErrInvalidInput, err)
	}

	return latitude, longitude, nil
}
