package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getStaffID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getStaffID extracts the staff_id from echo.Context and converts it to
// uint64.  The JWT middleware stores the claim value without asserting a
// type, so every numeric representation a decoded claim can take is
// handled here.
func getStaffID(c echo.Context) (uint64, error) {
	v := c.Get("staff_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid staff_id in context")
}
