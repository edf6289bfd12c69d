package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/tour"
	"github.com/merrydance/logistics/val"
)

// RequestSource how a tour request was encoded.
type RequestSource int

const (
	// SourceQuery URL parameters, no body.
	SourceQuery RequestSource = iota
	// SourceBody JSON body.
	SourceBody
)

const (
	// default profile per request form; the two forms historically differ
	defaultQueryProfile = "car.fastest"
	defaultBodyProfile  = "car"
)

// tourRequest a validated request, independent of its encoding.
type tourRequest struct {
	Source     RequestSource
	Profile    string
	Locations  []geo.Coordinate
	Attributes []geo.Attributes
	Closed     *bool
	Format     string
	Parameters tour.Parameters
}

// requestError a rejected request, rendered as 406 with its message.
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func rejectRequest(format string, args ...any) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

// queryTourRequest ?loc=lat,lon,lat,lon&profile=&closed=&format=&seed=
// loc may also be repeated, one pair per key: ?loc=lat,lon&loc=lat,lon
type queryTourRequest struct {
	Loc     []string `form:"loc"`
	Profile string   `form:"profile"`
	Closed  string   `form:"closed"`
	Format  string   `form:"format"`
	Seed    string   `form:"seed"`
}

// bodyTourRequest JSON body; locations are [lon, lat] pairs and tags are
// flat [key, value, key, value...] lists, one per location.
type bodyTourRequest struct {
	Locations [][]float64 `json:"locations" binding:"required,min=2,dive,lonlat"`
	Tags      [][]string  `json:"tags"`
	Profile   *struct {
		Name string `json:"name" binding:"omitempty,profilename"`
	} `json:"profile"`
	Closed *bool  `json:"closed"`
	Format string `json:"format"`
	Seed   *int64 `json:"seed"`
}

// bindTourRequest resolves the request form once: a request without body
// is read from the URL, any other from its JSON body.
func bindTourRequest(ctx *gin.Context) (*tourRequest, error) {
	if ctx.Request.Body == nil || ctx.Request.ContentLength == 0 {
		return bindQueryRequest(ctx)
	}
	return bindBodyRequest(ctx)
}

func bindQueryRequest(ctx *gin.Context) (*tourRequest, error) {
	var req queryTourRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		return nil, rejectRequest("request invalid: %s", err)
	}

	loc := strings.Join(req.Loc, ",")
	if strings.Trim(loc, ", ") == "" {
		return nil, rejectRequest("loc parameter not found or request invalid.")
	}
	parts := strings.Split(loc, ",")
	if len(parts) < 4 {
		return nil, rejectRequest("only one loc parameter found or request invalid.")
	}
	if len(parts)%2 != 0 {
		return nil, rejectRequest("location coordinates are invalid.")
	}

	locations := make([]geo.Coordinate, len(parts)/2)
	for i := range locations {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[2*i]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[2*i+1]), 64)
		if errLat != nil || errLon != nil || val.ValidateCoordinate(lat, lon) != nil {
			return nil, rejectRequest("location coordinates are invalid.")
		}
		locations[i] = geo.NewCoordinate(lat, lon)
	}

	out := &tourRequest{
		Source:    SourceQuery,
		Profile:   defaultQueryProfile,
		Locations: locations,
		Format:    req.Format,
	}
	if name := strings.TrimSpace(req.Profile); name != "" {
		out.Profile = name
	}
	if closed := strings.TrimSpace(req.Closed); closed != "" {
		value := strings.EqualFold(closed, "true")
		out.Closed = &value
	}
	if req.Seed != "" {
		seed, err := strconv.ParseInt(req.Seed, 10, 64)
		if err != nil {
			return nil, rejectRequest("seed parameter is invalid.")
		}
		out.Parameters = tour.Parameters{"seed": seed}
	}
	return out, nil
}

func bindBodyRequest(ctx *gin.Context) (*tourRequest, error) {
	var req bodyTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, bodyBindError(err)
	}

	locations := make([]geo.Coordinate, len(req.Locations))
	for i, pair := range req.Locations {
		locations[i] = geo.NewCoordinate(pair[1], pair[0])
	}

	attributes, err := parseTags(req.Tags, len(locations))
	if err != nil {
		return nil, err
	}

	out := &tourRequest{
		Source:     SourceBody,
		Profile:    defaultBodyProfile,
		Locations:  locations,
		Attributes: attributes,
		Closed:     req.Closed,
		Format:     req.Format,
	}
	if req.Profile != nil && strings.TrimSpace(req.Profile.Name) != "" {
		out.Profile = strings.TrimSpace(req.Profile.Name)
	}
	if req.Seed != nil {
		out.Parameters = tour.Parameters{"seed": *req.Seed}
	}
	return out, nil
}

// bodyBindError turns a decode or validation failure of the JSON body into
// the message of the first offending field.
func bodyBindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fieldErr := fieldErrs[0]
		switch fieldErr.Tag() {
		case "required", "min":
			if fieldErr.StructField() == "Locations" {
				return rejectRequest("only one location found or request invalid.")
			}
		case "lonlat":
			return rejectRequest("location coordinates are invalid.")
		case "profilename":
			return rejectRequest("profile name '%v' is invalid.", fieldErr.Value())
		}
		return rejectRequest("field %s is invalid.", strings.ToLower(fieldErr.Field()))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if strings.HasPrefix(typeErr.Field, "locations") {
			return rejectRequest("location coordinates are invalid.")
		}
		return rejectRequest("field %s has an invalid type.", typeErr.Field)
	}
	return rejectRequest("request body is invalid.")
}

// parseTags turns flat key/value lists into attribute sets. A null entry
// leaves that location without attributes.
func parseTags(tags [][]string, count int) ([]geo.Attributes, error) {
	if tags == nil {
		return nil, nil
	}
	if len(tags) != count {
		return nil, rejectRequest("tags must be given for every location.")
	}

	attributes := make([]geo.Attributes, len(tags))
	for i, tag := range tags {
		if len(tag)%2 != 0 {
			return nil, rejectRequest("tags of location %d are not key/value pairs.", i)
		}
		attributes[i] = geo.NewAttributes(tag...)
	}
	return attributes, nil
}
