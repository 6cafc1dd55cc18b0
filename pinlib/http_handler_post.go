package pinlib

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

var handleAddPointRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "name",
            "kind"
        ],
        "additionalProperties": false,
        "properties": {
            "name": {
                "type": "string",
                "minLength": 1
            },
            "kind": {
                "type": "string",
                "enum": [
                    "IP",
                    "CITY_NAME",
                    "COORDINATE",
                    "ip",
                    "city_name",
                    "coordinate"
                ]
            },
            "value": {
                "type": "string",
                "minLength": 1
            },
            "lat": {
                "type": "number"
            },
            "lon": {
                "type": "number"
            }
        },
        "anyOf": [
            {
                "required": [
                    "value"
                ]
            },
            {
                "required": [
                    "lat",
                    "lon"
                ]
            }
        ]
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type handleAddPointRequest struct {
	Name  string     `json:"name"`
	Kind  SourceKind `json:"kind"`
	Value string     `json:"value"`
	Lat   *float64   `json:"lat"`
	Lon   *float64   `json:"lon"`
}

func (h httpHandler) handleAddPoint(w http.ResponseWriter, req *http.Request, sess *Session) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := io.ReadAll(req.Body)

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := handleAddPointRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, err, "Cannot validate body", http.StatusBadRequest)

		return
	}

	if len(errs) > 0 {
		h.sendError(w, errs[0], "Invalid request body", http.StatusBadRequest)

		return
	}

	parsedRequest := &handleAddPointRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		h.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	query := Query{
		Kind:  parsedRequest.Kind,
		Value: parsedRequest.Value,
	}

	switch {
	case query.Kind != SourceCoordinate && query.Value == "":
		h.sendError(w, nil, "Value is required", http.StatusBadRequest)

		return
	case query.Kind == SourceCoordinate && (parsedRequest.Lat == nil || parsedRequest.Lon == nil):
		h.sendError(w, nil, "Coordinates are required", http.StatusBadRequest)

		return
	case query.Kind == SourceCoordinate:
		query.Latitude = *parsedRequest.Lat
		query.Longitude = *parsedRequest.Lon
	}

	point, err := h.pinmap.AddPoint(req.Context(), sess, parsedRequest.Name, query)
	if err != nil {
		h.sendError(w, err, "Cannot add a point", 0)

		return
	}

	h.encodeJSON(w, http.StatusCreated, resultResponse{
		Result: point,
		Render: h.pinmap.Render(sess),
	})
}
