package controllers

import (
	"fmt"
	"strconv"
)

// parseID converts a path parameter into a numeric id.
func parseID(param string, out *uint) error {
	n, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", param)
	}
	*out = uint(n)
	return nil
}
