package httpserve

import (
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) allowOrigin(r *http.Request, w http.ResponseWriter) {
	origin := r.Header.Get("Origin")
	if origin == "" || s.Cfg.CORES == "" {
		return
	}
	if s.Cfg.CORES == "*" {
		// Allow all origins
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else if originListed(s.Cfg.CORES, origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
}

// originListed reports whether origin is one of the comma separated entries of allowed
func originListed(allowed, origin string) bool {
	for _, o := range strings.Split(allowed, ",") {
		if strings.TrimSpace(o) == origin {
			return true
		}
	}
	return false
}

// CorsChecked answers preflight requests; it reports true when the request is done
func (s *Server) CorsChecked(r *http.Request, w http.ResponseWriter) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Accept-Language, X-CSRF-Token, Authorization, If-None-Match, Rt, Origin, Refer, User-Agent")
	s.allowOrigin(r, w)
	w.Header().Set("Access-Control-Max-Age", strconv.Itoa(30*86400)) // 30 days
	w.WriteHeader(http.StatusNoContent)
	return true
}
