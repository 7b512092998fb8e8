package handler

import (
	"errors"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

var errBodyNotObject = errors.New("request body must be a JSON object")

// decodeDocument parses a JSON body into a free-form document.
//
// Relaxed Extended JSON keeps integers as int32/int64 instead of float64, so
// {"pages": 412} is stored as a number the way the mongo shell would store it.
func decodeDocument(data []byte) (bson.M, error) {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, errBodyNotObject
	}
	return doc, nil
}

// documentBody is embedded by requests whose body is stored as sent.
type documentBody struct {
	Document bson.M `json:"-"`
}

func (b *documentBody) UnmarshalJSON(data []byte) error {
	doc, err := decodeDocument(data)
	if err != nil {
		return err
	}
	b.Document = doc
	return nil
}

// unescapeParam decodes a path param. echo matches routes on the raw path
// when the request has one, so escapes like %40 survive into the value.
// Without a raw path the value is already decoded.
func unescapeParam(c echo.Context, value string) (string, error) {
	if c.Request().URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
