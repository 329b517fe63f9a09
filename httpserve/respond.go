package httpserve

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/homepage"
	"github.com/truthlens/newsroom/hub"
	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/permission"
	"github.com/truthlens/newsroom/settings"
)

// withStatus overrides the 200 of a successful response
type withStatus struct {
	status int
	body   interface{}
}

func created(body interface{}) interface{} {
	return withStatus{status: http.StatusCreated, body: body}
}

var badRequests = []error{
	ErrBadRequest,
	kvstore.ErrInvalidKey, kvstore.ErrInvalidJSON,
	content.ErrInvalid, content.ErrClosed,
	settings.ErrInvalid, settings.ErrCapacity, settings.ErrDuplicate, settings.ErrStaticSection,
	settings.ErrSectionDisabled, settings.ErrUnknownKey,
	permission.ErrInvalidOverride,
}

// statusOf maps domain errors to http status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrOperationNotPermited):
		return http.StatusForbidden
	case errors.Is(err, ErrNoToken), errors.Is(err, content.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, kvstore.ErrNotFound), errors.Is(err, content.ErrNotFound), errors.Is(err, settings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, homepage.ErrMaintenance):
		return http.StatusServiceUnavailable
	}
	for _, bad := range badRequests {
		if errors.Is(err, bad) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// plain turns raw json documents into values msgpack can encode as maps
func plain(result interface{}) (interface{}, error) {
	var (
		v   interface{}
		bs  []byte
		err error
	)
	switch raw := result.(type) {
	case json.RawMessage:
		bs = raw
	case map[string]json.RawMessage:
		if bs, err = json.Marshal(raw); err != nil {
			return nil, err
		}
	default:
		return result, nil
	}
	if err = json.Unmarshal(bs, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// respond writes result as json, or msgpack when rt=application/msgpack.
// Successful GET responses carry an ETag and honour If-None-Match.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, result interface{}, err error) {
	var (
		bs                  []byte
		httpStatus          int    = http.StatusOK
		ResponseContentType string = "application/json"
	)
	if r.URL.Query().Get("rt") == "application/msgpack" {
		ResponseContentType = "application/msgpack"
	}
	if ws, ok := result.(withStatus); ok {
		httpStatus, result = ws.status, ws.body
	}

	if err == nil {
		if ResponseContentType == "application/msgpack" {
			if result, err = plain(result); err == nil {
				bs, err = hub.EncodeMsgpack(result)
			}
		} else if bs, err = json.Marshal(result); err == nil {
			var dst *bytes.Buffer = bytes.NewBuffer([]byte{})
			if err = json.Compact(dst, bs); err == nil {
				bs = dst.Bytes()
			}
		}
	}
	// Error handling
	if err != nil {
		httpStatus = statusOf(err)
		msg := err.Error()
		if httpStatus == http.StatusInternalServerError {
			dlog.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
			msg = "internal server error"
		}
		ResponseContentType = "application/json"
		bs, _ = json.Marshal(map[string]string{"error": msg})
	}

	w.Header().Set("Content-Type", ResponseContentType)
	if err == nil && httpStatus == http.StatusOK && r.Method == http.MethodGet {
		etag := `"` + strconv.FormatUint(xxhash.Sum64(bs), 16) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(httpStatus)
	w.Write(bs)
}
