package rest

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var errFIDNotInteger = errors.New("fid must be a decimal integer")

// parseFID accept a json number or a base 10 numeric string, nil and "" mean absent
func parseFID(v interface{}) (int64, error) {
	switch fid := v.(type) {
	case nil:
		return 0, nil
	case bool:
		return 0, errFIDNotInteger
	case string:
		s := strings.TrimSpace(fid)
		if s == "" {
			return 0, nil
		}

		return strconv.ParseInt(s, 10, 64)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, errFIDNotInteger
	}

	return int64(f), nil
}
