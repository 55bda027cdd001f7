package gas

import (
	"net/http"

	"github.com/ansel1/merry"
)

var (
	ErrInvalidRegime  = merry.New("invalid pressure regime").WithHTTPCode(http.StatusBadRequest)
	ErrInvalidFuel    = merry.New("invalid fuel type").WithHTTPCode(http.StatusBadRequest)
	ErrDomain         = merry.New("value outside sizing domain").WithHTTPCode(http.StatusBadRequest)
	ErrNoMatch        = merry.New("diameter exceeds pipe catalog").WithHTTPCode(http.StatusUnprocessableEntity)
	ErrInvalidRequest = merry.New("invalid sizing request").WithHTTPCode(http.StatusBadRequest)
)
