package httpserve

import (
	"errors"
)

var ErrOperationNotPermited = errors.New("error operation permission denied")
var ErrNoToken = errors.New("missing bearer token")
var ErrBadRequest = errors.New("error bad request")
