package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-faster/city"

	"github.com/kvfinder/kvfinder-web/internal/model"
)

// Tag computes the public job identifier: the decimal rendering of the
// CityHash64 of the input's canonical JSON serialisation. The same
// serialisation is what gets enqueued, so equal tags imply equal content.
func Tag(in *model.Input) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("serialize input: %w", err)
	}
	return strconv.FormatUint(city.Hash64(b), 10), nil
}
