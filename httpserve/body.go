package httpserve

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

func msgpackBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/msgpack") || ct == "application/octet-stream"
}

func (s *Server) bodyReader(w http.ResponseWriter, r *http.Request) io.Reader {
	limit := s.Cfg.MaxBufferSize
	if limit <= 0 {
		limit = 10 << 20
	}
	return http.MaxBytesReader(w, r.Body, limit)
}

// decodeBody reads a json body, or a msgpack body keyed by the json field names
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) (err error) {
	body := s.bodyReader(w, r)
	if msgpackBody(r) {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		err = dec.Decode(v)
	} else {
		err = json.NewDecoder(body).Decode(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// documentBody returns the request body as json, converting msgpack bodies
func (s *Server) documentBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if msgpackBody(r) {
		var v interface{}
		if err := s.decodeBody(w, r, &v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
	raw, err := io.ReadAll(s.bodyReader(w, r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if raw = bytes.TrimSpace(raw); len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	return raw, nil
}
